package main

import (
	"context"
	"testing"

	"sms-portal/internal/config"
	"sms-portal/internal/memstore"
	"sms-portal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestNewRoot_Subcommands(t *testing.T) {
	root := newRoot()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed-admins", "deactivate-lapsed", "send-reminders"}, names)

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("in-memory"))

	seed, _, err := root.Find([]string{"seed-admins"})
	require.NoError(t, err)
	assert.Equal(t, "admins.yaml", seed.Flags().Lookup("file").DefValue)
}

func TestSeedFile_Parse(t *testing.T) {
	raw := []byte(`
admins:
  - name: Dean Engineering
    email: dean.eng@pdn.ac.lk
    role: DEAN
    faculty: Engineering
  - name: Assistant Registrar
    email: ar@pdn.ac.lk
    role: ASSISTANT_REGISTRAR
`)
	var seed seedFile
	require.NoError(t, yaml.Unmarshal(raw, &seed))
	require.Len(t, seed.Admins, 2)
	assert.Equal(t, "dean.eng@pdn.ac.lk", seed.Admins[0].Email)
	assert.Equal(t, "Engineering", seed.Admins[0].Faculty)
	assert.Equal(t, "ASSISTANT_REGISTRAR", seed.Admins[1].Role)
}

func TestOpenRepository_InMemory(t *testing.T) {
	repo, err := openRepository(config.Global(), true)
	require.NoError(t, err)
	assert.IsType(t, &memstore.Store{}, repo)
}

func TestOpenCache_DisabledWithoutHost(t *testing.T) {
	c, closeFn := openCache(context.Background(), config.Redis{})
	defer closeFn()
	assert.Equal(t, cache.Noop{}, c)
}
