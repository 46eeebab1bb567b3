package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/dominicmartinelli/pymud3/internal/storage"
)

// Directions in canonical order, used for exit listings.
var directions = []string{"north", "east", "south", "west", "up", "down"}

// ValidDirection reports whether dir names a movement direction.
func ValidDirection(dir string) bool {
	for _, d := range directions {
		if d == dir {
			return true
		}
	}
	return false
}

// Door sits on an exit. Doors start closed; locked doors may carry a code
// that unlock must match.
type Door struct {
	Locked bool   `json:"locked,omitempty"`
	Code   string `json:"code,omitempty"`
}

// Exit defines a destination for movement from a room, optionally behind
// a door.
type Exit struct {
	Destination storage.SmartIdentifier[*Room] `json:"destination"`
	Door        *Door                          `json:"door,omitempty"`
}

// Room represents a location loaded from asset files. Resets name the
// mobiles and objects instantiated into the room when the world is built.
type Room struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Exits       map[string]*Exit `json:"exits"` // direction -> destination

	// Mobiles holds mobile definitions spawned here at world build.
	// List an id twice to spawn two.
	Mobiles []storage.SmartIdentifier[*Mobile] `json:"mobiles,omitempty"`

	// Objects holds object definitions placed here at world build.
	Objects []storage.SmartIdentifier[*Object] `json:"objects,omitempty"`

	storage.ExtensionState `json:"ext,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	if r.Description == "" {
		el.Add(fmt.Errorf("room description is required"))
	}

	for dir, exit := range r.Exits {
		if !ValidDirection(dir) {
			el.Add(fmt.Errorf("exit %s: not a direction", dir))
		}
		if exit == nil || exit.Destination.Get() == "" {
			el.Add(fmt.Errorf("exit %s: destination is required", dir))
		}
	}

	return el.Err()
}

// doorState tracks the run-time state of one door. Definitions say whether
// a door exists and whether it starts locked; this is what open/close/unlock
// mutate.
type doorState struct {
	open   bool
	locked bool
	code   string
}

// roomExit is the run-time view of one exit.
type roomExit struct {
	direction string
	to        *RoomInstance
	door      *doorState
}

// RoomInstance is a live room: the immutable definition plus everything
// standing in it. All fields are guarded by the world lock; nothing outside
// this package touches them directly.
type RoomInstance struct {
	id   string
	def  *Room
	exit map[string]*roomExit

	players []*Player
	mobs    []*MobileInstance
	objects []*Object
}

func newRoomInstance(id string, def *Room) *RoomInstance {
	return &RoomInstance{
		id:   id,
		def:  def,
		exit: make(map[string]*roomExit),
	}
}

func (r *RoomInstance) Id() string   { return r.id }
func (r *RoomInstance) Name() string { return r.def.Name }

func (r *RoomInstance) removePlayer(p *Player) {
	for i, o := range r.players {
		if o == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

func (r *RoomInstance) removeMob(m *MobileInstance) {
	for i, o := range r.mobs {
		if o == m {
			r.mobs = append(r.mobs[:i], r.mobs[i+1:]...)
			return
		}
	}
}

func (r *RoomInstance) removeObject(o *Object) {
	for i, x := range r.objects {
		if x == o {
			r.objects = append(r.objects[:i], r.objects[i+1:]...)
			return
		}
	}
}

// hostiles returns the attackable mobs in the room, in placement order.
func (r *RoomInstance) hostiles() []*MobileInstance {
	var out []*MobileInstance
	for _, m := range r.mobs {
		if !m.def.IsNpc {
			out = append(out, m)
		}
	}
	return out
}

// npcs returns the conversational occupants of the room.
func (r *RoomInstance) npcs() []*MobileInstance {
	var out []*MobileInstance
	for _, m := range r.mobs {
		if m.def.IsNpc {
			out = append(out, m)
		}
	}
	return out
}

func (r *RoomInstance) String() string {
	return fmt.Sprintf("%s (%s)", r.def.Name, r.id)
}
