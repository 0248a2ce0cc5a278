package commands

import "testing"

func TestCommandsAreUnique(t *testing.T) {
	want := map[string]bool{
		"claim-key": false, "current-round": false, "giveaway-post": false, "round-claims": false,
		"give-key": false, "give-key-unchecked": false, "start-round": false, "end-round": false,
		"set-key-role": false, "import-keys": false, "version": false,
	}

	for _, cmd := range Commands {
		name := cmd.CommandName()
		seen, ok := want[name]
		if !ok {
			t.Errorf("unexpected command %q", name)
			continue
		}
		if seen {
			t.Errorf("command %q registered twice", name)
		}
		want[name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("command %q missing", name)
		}
	}
}
