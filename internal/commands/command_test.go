package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/tcheck/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"edit pay rent today", TypeEdit},
		{"priority p0", TypePriority},
		{"tab new Work", TypeTab},
		{"theme nord", TypeTheme},
		{"/upgrade", TypeUpgrade},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseTabActions(t *testing.T) {
	cases := []struct {
		in   string
		want TabArgs
	}{
		{"tab new", TabArgs{Action: TabNew}},
		{"tab new Side Projects", TabArgs{Action: TabNew, Title: "Side Projects"}},
		{"tab close", TabArgs{Action: TabClose}},
		{"tab rename Errands", TabArgs{Action: TabRename, Title: "Errands"}},
		{"tab 2", TabArgs{Action: TabSelect, Index: 2}},
	}
	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if *cmd.Tab != tc.want {
			t.Fatalf("parse %q = %+v, want %+v", tc.in, *cmd.Tab, tc.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	cmd, err := Parse("priority P1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Priority.Priority != model.PriorityP1 {
		t.Fatalf("priority = %q", cmd.Priority.Priority)
	}

	cmd, err = Parse("priority none")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Priority.Priority != model.PriorityUnset {
		t.Fatalf("priority = %q, want unset", cmd.Priority.Priority)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"add", "add   ", "edit", "priority p7", "priority", "tab", "tab rename", "tab 0", "tab later", "theme"} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "/", " / "} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
			t.Fatalf("parse %q: expected empty input, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Text != "write docs" {
				t.Fatalf("unexpected text: %q", a.Text)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteUpgrade(t *testing.T) {
	cmd, err := Parse("upgrade")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	res, err := Execute(cmd, Handlers{Upgrade: func() (Result, error) {
		return Result{Message: "upgrading"}, nil
	}})
	if err != nil || res.Message != "upgrading" {
		t.Fatalf("execute = %+v, %v", res, err)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("theme dracula")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
