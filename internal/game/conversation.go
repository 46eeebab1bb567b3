package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dominicmartinelli/pymud3/internal/dialogue"
)

// Conversationalist produces an NPC's next line from a running transcript.
// Calls may block on a remote service, so the world never holds its lock
// across one. An empty reply means the speaker has nothing to say.
type Conversationalist interface {
	Chat(ctx context.Context, transcript []dialogue.Message) string
}

const greetingPrompt = "A player approaches you to start a conversation. Greet them naturally and ask how you can help."

const greetingFallback = "Hello there! How can I help you?"

// conversation is a live chat session between the players in a room and
// its NPCs. The transcript keeps the system prompt plus the most recent
// exchanges.
type conversation struct {
	npcs         []*MobileInstance
	participants []*Player
	history      []dialogue.Message
}

// trim keeps the system prompt and the last five messages.
func (c *conversation) trim() {
	if len(c.history) > 6 {
		trimmed := make([]dialogue.Message, 0, 6)
		trimmed = append(trimmed, c.history[0])
		trimmed = append(trimmed, c.history[len(c.history)-5:]...)
		c.history = trimmed
	}
}

// clip truncates persona text fed into prompts.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// personaContext is the NPC's prompt background: personality if set,
// otherwise the description.
func personaContext(def *Mobile, limit int) string {
	context := def.Personality
	if context == "" {
		context = def.Description
	}
	return clip(context, limit)
}

// startSystemPrompt builds the system prompt for a fresh conversation,
// acknowledging any other NPCs present.
func startSystemPrompt(target *Mobile, npcs []*MobileInstance) string {
	var b strings.Builder
	if len(npcs) == 1 {
		fmt.Fprintf(&b, "You are %s, an NPC in a text-based RPG. Background: %s. Always respond in first person without including your character name in responses.",
			target.ShortDesc, personaContext(target, 500))
	} else {
		names := make([]string, len(npcs))
		for i, n := range npcs {
			names[i] = n.def.ShortDesc
		}
		fmt.Fprintf(&b, "You are %s, an NPC in a text-based RPG with other NPCs present (%s). Background: %s. You may respond for yourself or facilitate group conversation. Always respond in first person without including your character name in responses.",
			target.ShortDesc, strings.Join(names, ", "), personaContext(target, 500))
	}
	if target.Background != "" {
		fmt.Fprintf(&b, " Additional background: %s", clip(target.Background, 200))
	}
	if target.Secrets != "" {
		fmt.Fprintf(&b, " Secret knowledge: %s", clip(target.Secrets, 200))
	}
	return b.String()
}

// groupSystemPrompt refocuses the transcript on one responder in a group
// conversation.
func groupSystemPrompt(def *Mobile) string {
	return fmt.Sprintf("You are %s in a group conversation. Background: %s. Respond naturally as this character would in first person, keeping responses brief since others may also respond. Do not include your character name in the response.",
		def.ShortDesc, personaContext(def, 200))
}

// findNpcLocked resolves a conversational NPC in the room by keyword or
// short description. Callers must hold the lock.
func findNpcLocked(r *RoomInstance, name string) *MobileInstance {
	key := strings.ToLower(name)
	for _, m := range r.mobs {
		if !m.def.IsNpc {
			continue
		}
		for _, kw := range m.def.Keywords {
			if strings.ToLower(kw) == key {
				return m
			}
		}
		if strings.Contains(strings.ToLower(m.def.ShortDesc), key) {
			return m
		}
	}
	return nil
}

// joinNames renders "a", "a and b", or "a, b and c".
func joinNames(npcs []*MobileInstance) string {
	names := make([]string, len(npcs))
	for i, n := range npcs {
		names[i] = n.def.ShortDesc
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

// Talk starts a conversation with a named NPC, or joins the one already
// running in the room. Starting one asks the NPC for a greeting; the
// dialogue call happens with the lock released and the reply is delivered
// under a fresh critical section.
func (w *World) Talk(ctx context.Context, name, npcName string) error {
	var (
		greet      bool
		roomID     string
		npcDesc    string
		transcript []dialogue.Message
	)
	err := w.run(func() error {
		p, perr := w.playerLocked(name)
		if perr != nil {
			return perr
		}

		if strings.TrimSpace(npcName) == "" {
			w.tell(p, "Talk to whom?")
			return nil
		}
		target := findNpcLocked(p.room, npcName)
		if target == nil {
			w.tell(p, "There is no '%s' here to talk to.", npcName)
			return nil
		}

		roomNpcs := p.room.npcs()
		if c, ok := w.conversations[p.room.id]; ok {
			joined := false
			for _, o := range c.participants {
				if o == p {
					joined = true
					break
				}
			}
			if !joined {
				c.participants = append(c.participants, p)
			}
			c.npcs = roomNpcs
			w.tell(p, "You join the ongoing conversation.")
			w.tellRoom(p.room, []*Player{p}, "%s joins the conversation.", p.Name)
			w.tell(p, "[Use 'say <message>' to continue talking]")
			return nil
		}

		c := &conversation{
			npcs:         roomNpcs,
			participants: []*Player{p},
			history:      []dialogue.Message{{Role: "system", Content: startSystemPrompt(target.def, roomNpcs)}},
		}
		w.conversations[p.room.id] = c

		if len(roomNpcs) == 1 {
			w.tell(p, "You start a conversation with %s.", target.def.ShortDesc)
		} else {
			w.tell(p, "You start a group conversation with %s.", joinNames(roomNpcs))
		}

		greet = true
		roomID = p.room.id
		npcDesc = target.def.ShortDesc
		transcript = make([]dialogue.Message, len(c.history), len(c.history)+1)
		copy(transcript, c.history)
		transcript = append(transcript, dialogue.Message{Role: "user", Content: greetingPrompt})
		return nil
	})
	if err != nil || !greet {
		return err
	}

	reply := w.dialogue.Chat(ctx, transcript)

	return w.run(func() error {
		r, ok := w.rooms[roomID]
		if !ok {
			return nil
		}
		if reply == "" {
			w.tellRoom(r, nil, "%s: %s", npcDesc, greetingFallback)
		} else {
			w.tellRoom(r, nil, "%s: %s", npcDesc, reply)
			if c, ok := w.conversations[roomID]; ok {
				c.history = append(c.history,
					dialogue.Message{Role: "user", Content: "Hello"},
					dialogue.Message{Role: "assistant", Content: reply})
			}
		}
		if p, perr := w.playerLocked(name); perr == nil {
			w.tell(p, "[Use 'say <message>' to continue talking]")
		}
		return nil
	})
}

// pendingReply marks one NPC due to answer the last say.
type pendingReply struct {
	npc   *MobileInstance
	group bool
}

// Say speaks to the room. With a conversation running, the NPCs answer:
// a lone NPC always does, while a group fields one to three responders,
// each seeing the replies spoken before its own.
func (w *World) Say(ctx context.Context, name, message string) error {
	var (
		roomID     string
		responders []pendingReply
	)
	err := w.run(func() error {
		p, perr := w.playerLocked(name)
		if perr != nil {
			return perr
		}

		if strings.TrimSpace(message) == "" {
			w.tell(p, "What do you want to say?")
			return nil
		}
		w.tellRoom(p.room, nil, "%s: %s", p.Name, message)

		c, ok := w.conversations[p.room.id]
		if !ok || len(c.npcs) == 0 {
			return nil
		}
		roomID = p.room.id
		c.history = append(c.history, dialogue.Message{Role: "user", Content: message})
		c.trim()

		if len(c.npcs) == 1 {
			responders = []pendingReply{{npc: c.npcs[0]}}
		} else {
			n := rand.IntN(3) + 1
			if n > len(c.npcs) {
				n = len(c.npcs)
			}
			for _, idx := range rand.Perm(len(c.npcs))[:n] {
				responders = append(responders, pendingReply{npc: c.npcs[idx], group: true})
			}
		}
		return nil
	})
	if err != nil || len(responders) == 0 {
		return err
	}

	for _, pr := range responders {
		w.deliverNpcReply(ctx, roomID, pr)
	}

	return w.run(func() error {
		if p, perr := w.playerLocked(name); perr == nil {
			w.tell(p, "[Use 'say <message>' to continue talking]")
		}
		return nil
	})
}

// deliverNpcReply snapshots the transcript, asks for the NPC's line with
// the lock released, then broadcasts and records it.
func (w *World) deliverNpcReply(ctx context.Context, roomID string, pr pendingReply) {
	var transcript []dialogue.Message
	_ = w.run(func() error {
		c, ok := w.conversations[roomID]
		if !ok {
			return nil
		}
		transcript = make([]dialogue.Message, len(c.history))
		copy(transcript, c.history)
		if pr.group && len(transcript) > 0 {
			transcript[0] = dialogue.Message{Role: "system", Content: groupSystemPrompt(pr.npc.def)}
		}
		return nil
	})
	if transcript == nil {
		return
	}

	reply := w.dialogue.Chat(ctx, transcript)
	if reply == "" {
		reply = dialogue.FallbackLine
	}

	_ = w.run(func() error {
		r, ok := w.rooms[roomID]
		if !ok {
			return nil
		}
		w.tellRoom(r, nil, "%s: %s", pr.npc.def.ShortDesc, reply)
		if c, ok := w.conversations[roomID]; ok {
			content := reply
			if pr.group {
				content = fmt.Sprintf("[%s] %s", pr.npc.def.ShortDesc, reply)
			}
			c.history = append(c.history, dialogue.Message{Role: "assistant", Content: content})
		}
		return nil
	})
}

// StopChat ends the conversation in the player's room.
func (w *World) StopChat(name string) error {
	return w.run(func() error {
		p, err := w.playerLocked(name)
		if err != nil {
			return err
		}

		if _, ok := w.conversations[p.room.id]; !ok {
			w.tell(p, "There is no active conversation to stop.")
			return nil
		}
		delete(w.conversations, p.room.id)
		w.tell(p, "You end the conversation. NPCs return to their normal activities.")
		w.tellRoom(p.room, []*Player{p}, "%s ends the conversation.", p.Name)
		return nil
	})
}

// leaveConversationLocked drops a departing player from the conversation
// in their room. The conversation ends when its last participant leaves.
func (w *World) leaveConversationLocked(p *Player) {
	if p.room == nil {
		return
	}
	c, ok := w.conversations[p.room.id]
	if !ok {
		return
	}
	for i, o := range c.participants {
		if o == p {
			c.participants = append(c.participants[:i], c.participants[i+1:]...)
			break
		}
	}
	if len(c.participants) == 0 {
		delete(w.conversations, p.room.id)
	}
}
