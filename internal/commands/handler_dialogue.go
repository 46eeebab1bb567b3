package commands

import (
	"context"
	"strings"
)

func (h *Handler) registerDialogue() {
	h.register("talk", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Talk(ctx, name, strings.Join(args, " "))
	})

	h.register("say", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.Say(ctx, name, strings.Join(args, " "))
	})

	h.register("stop", func(ctx context.Context, name string, args []string) (bool, error) {
		return false, h.world.StopChat(name)
	})

	h.register("chat", func(ctx context.Context, name string, args []string) (bool, error) {
		if len(args) == 0 {
			return false, NewUserError("Chat what? Usage: chat <message>")
		}
		return false, h.world.Chat(name, strings.Join(args, " "))
	})
}
