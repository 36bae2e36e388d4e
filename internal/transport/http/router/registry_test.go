package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	httpez "halwaipro/internal/transport/http/ez"
)

type recMod struct {
	name string
	prio int
	log  *[]string
}

func (m recMod) MountAPI(httpez.EZ)   { *m.log = append(*m.log, "api:"+m.name) }
func (m recMod) MountAdmin(httpez.EZ) { *m.log = append(*m.log, "admin:"+m.name) }
func (m recMod) Priority() int        { return m.prio }

type apiOnly struct{ log *[]string }

func (m apiOnly) MountAPI(httpez.EZ) { *m.log = append(*m.log, "api:plain") }

func TestRegistryOrdersByPriority(t *testing.T) {
	var log []string
	r := NewRegistry(
		apiOnly{log: &log},
		recMod{name: "b", prio: 20, log: &log},
		recMod{name: "a", prio: 10, log: &log},
		"not a module",
	)
	r.MountAllAPI(httpez.EZ{})
	r.MountAllAdmin(httpez.EZ{})

	assert.Equal(t, []string{"api:a", "api:b", "api:plain", "admin:a", "admin:b"}, log)
}
