package game

import "time"

// ScheduleTick moves scheduled NPCs to wherever the current hour says
// they should be. It runs every minute against the wall clock; an NPC
// already in its scheduled room stays put.
func (w *World) ScheduleTick(now time.Time) error {
	hour := now.Hour()
	return w.run(func() error {
		for _, id := range w.roomIds {
			r := w.rooms[id]
			mobs := make([]*MobileInstance, len(r.mobs))
			copy(mobs, r.mobs)

			for _, m := range mobs {
				for _, entry := range m.def.Schedule {
					if entry.Hour != hour {
						continue
					}
					dest, ok := w.rooms[entry.Room.Get()]
					if ok && dest != r {
						r.removeMob(m)
						dest.mobs = append(dest.mobs, m)
					}
					break
				}
			}
		}
		return nil
	})
}
