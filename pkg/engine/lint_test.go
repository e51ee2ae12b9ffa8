package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticChecks(t *testing.T) {
	te := load(t, map[string]string{
		"Kconfig": `
config FEATURE
	bool "feature"

config ORPHAN
	string

config STUCK
	bool

config STUCK_USER
	bool "stuck user"
	depends on STUCK

config SELECTED
	bool

config SELECTOR
	bool "selector"
	select SELECTED

config COMPUTED
	int
	default 64
`,
	}, nil)

	te.eng.StaticChecks()

	var messages []string
	for _, w := range te.rep.Warnings() {
		messages = append(messages, w.Message)
	}

	assert.Contains(t, messages, "ORPHAN has no prompt and nothing references it")
	assert.Contains(t, messages,
		"STUCK has no prompt, no default, and is never selected or implied; it can only be n")

	assert.Len(t, messages, 2,
		"prompted, selected, and defaulted symbols are not flagged")
}
