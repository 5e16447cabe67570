package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type echoCommand struct{}

func (*echoCommand) Name() string        { return "echo" }
func (*echoCommand) Description() string { return "Print the arguments" }
func (*echoCommand) Usage() string       { return "echo [-n] <text>..." }

func (*echoCommand) Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error) {
	for i, arg := range args.Args {
		if i > 0 {
			io.WriteString(writer, " ")
		}
		io.WriteString(writer, arg)
	}
	if !args.Bool("no-newline") {
		io.WriteString(writer, "\n")
	}
	return 0, nil
}

func (*echoCommand) GetFlags() *CommandFlagSet {
	return &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"no-newline": {Name: "no-newline", Short: "n", Type: FlagBool},
		},
	}
}

func TestManager_Execute(t *testing.T) {
	m := NewManager(nil)
	if err := m.Register(&echoCommand{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var out bytes.Buffer
	code, err := m.Execute(testContext(t), &out, "echo", "-n", "hello", "world")
	if err != nil || code != 0 {
		t.Fatalf("Execute failed: %d %v", code, err)
	}
	if out.String() != "hello world" {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestManager_Errors(t *testing.T) {
	m := NewManager(nil)
	if err := m.Register(&echoCommand{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := m.Register(&echoCommand{}); err == nil {
		t.Error("Expected duplicate registration to fail")
	}
	if _, err := m.Execute(testContext(t), io.Discard); !errors.Is(err, ErrNoCommand) {
		t.Errorf("Expected ErrNoCommand, got %v", err)
	}
	if _, err := m.Execute(testContext(t), io.Discard, "nope"); !errors.Is(err, ErrCommandNotFound) {
		t.Errorf("Expected ErrCommandNotFound, got %v", err)
	}
	if code, err := m.Execute(testContext(t), io.Discard, "echo", "--bogus"); code != 1 || err == nil {
		t.Errorf("Expected parse error, got %d %v", code, err)
	}
}
