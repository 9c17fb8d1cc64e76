package telegram

import (
	"testing"

	"citybot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestRegistryCommandRegistration(t *testing.T) {
	reg := NewRegistry()

	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "Request a service"})
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "duplicate"})
	reg.RegisterCommand("nocommand", commands.Command{Handler: noopHandler, Description: "missing slash"})
	reg.RegisterCommand("/broken", commands.Command{Description: "nil handler"})

	if len(reg.Commands()) != 1 {
		t.Fatalf("commands = %d, want 1", len(reg.Commands()))
	}
	if _, cmd, ok := reg.LookupCommand("start"); !ok || cmd.Description != "Request a service" {
		t.Fatal("lookup without slash should resolve /start")
	}
}

func TestRegistryCommandAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     noopHandler,
		Description: "Cancel the current request",
		Aliases:     []string{"abort"},
	})

	key, _, ok := reg.LookupCommand("/abort")
	if !ok || key != "/cancel" {
		t.Fatalf("alias lookup = %q/%v, want /cancel/true", key, ok)
	}
	if _, _, ok := reg.LookupCommand("/unknown"); ok {
		t.Fatal("unknown command should not resolve")
	}
}

func TestRegistryListCommandsVisibility(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "start"})
	reg.RegisterCommand("/stats", commands.Command{Handler: noopHandler, Description: "stats", AdminOnly: true, Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("visible commands = %v, want only /start", visible)
	}
	if all := reg.ListCommands(false); len(all) != 2 {
		t.Fatalf("all commands = %d, want 2", len(all))
	}
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()

	if err := reg.RegisterCallback("service", noopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("service", noopHandler); err == nil {
		t.Fatal("duplicate callback registration should fail")
	}
	if err := reg.RegisterCallback("", noopHandler); err == nil {
		t.Fatal("empty key registration should fail")
	}

	if _, ok := reg.GetCallback("service"); !ok {
		t.Fatal("registered callback not found")
	}
	if _, ok := reg.GetCallback("other"); ok {
		t.Fatal("unregistered callback should not resolve")
	}
	if keys := reg.ListCallbacks(); len(keys) != 1 || keys[0] != "service" {
		t.Fatalf("callbacks = %v", keys)
	}
}
