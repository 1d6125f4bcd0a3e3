package docbot_test

import (
	"testing"

	"github.com/fwojciec/docbot"
	"github.com/stretchr/testify/assert"
)

func TestParseFollowUps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{
			name: "dash bullets",
			text: "- How are values reinforced?\n- What is iteration?\n",
			max:  4,
			want: []string{"How are values reinforced?", "What is iteration?"},
		},
		{
			name: "numbered and starred",
			text: "Here are some ideas:\n1. First?\n2) Second?\n* **Third?**",
			max:  4,
			want: []string{"First?", "Second?", "Third?"},
		},
		{
			name: "caps at max",
			text: "- a?\n- b?\n- c?\n- d?\n- e?",
			max:  4,
			want: []string{"a?", "b?", "c?", "d?"},
		},
		{
			name: "skips duplicates and prose",
			text: "Sure thing.\n- Same?\n- same?\nWhat about this?",
			max:  4,
			want: []string{"Same?", "What about this?"},
		},
		{
			name: "empty",
			text: "",
			max:  4,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, docbot.ParseFollowUps(tt.text, tt.max))
		})
	}
}
