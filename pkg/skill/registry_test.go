package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Run("registered skill is retrievable by exact version", func(t *testing.T) {
		reg := NewRegistry()
		s := validSkill()
		require.NoError(t, reg.Register(s))

		got, err := reg.Get("echo", "1.0.0")
		require.NoError(t, err)
		assert.Same(t, s, got)
	})

	t.Run("invalid skill fails closed and is never stored", func(t *testing.T) {
		reg := NewRegistry()
		s := validSkill()
		s.Metadata.Name = ""

		err := reg.Register(s)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("unknown skill returns NotFoundError", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Get("missing", "")
		var nerr *NotFoundError
		require.ErrorAs(t, err, &nerr)

		_, err = reg.Get("missing", "1.2.3")
		require.ErrorAs(t, err, &nerr)
		assert.Contains(t, err.Error(), "missing@1.2.3")
	})
}

func TestRegistryLatestVersion(t *testing.T) {
	reg := NewRegistry()
	for _, v := range []string{"1.0.0", "1.2.0", "1.10.0"} {
		s := validSkill()
		s.Metadata.Version = v
		require.NoError(t, reg.Register(s))
	}

	got, err := reg.Get("echo", "")
	require.NoError(t, err)
	// Lexicographic resolution: "1.2.0" beats "1.10.0". Known limitation.
	assert.Equal(t, "1.2.0", got.Metadata.Version)
}

func TestRegistryFindByTrigger(t *testing.T) {
	reg := NewRegistry()

	review := validSkill()
	review.Metadata.Name = "review"
	review.Triggers = []TriggerRule{{Condition: TriggerKeyword, Pattern: "review"}}
	require.NoError(t, reg.Register(review))

	deploy := validSkill()
	deploy.Metadata.Name = "deploy"
	deploy.Triggers = []TriggerRule{
		{Condition: TriggerContext, ContextRequirements: map[string]any{"env": "prod"}},
	}
	require.NoError(t, reg.Register(deploy))

	t.Run("keyword input matches one", func(t *testing.T) {
		matched := reg.FindByTrigger("please review this", nil)
		require.Len(t, matched, 1)
		assert.Equal(t, "review", matched[0].Metadata.Name)
	})

	t.Run("context matches the other", func(t *testing.T) {
		matched := reg.FindByTrigger("ship it", map[string]any{"env": "prod"})
		require.Len(t, matched, 1)
		assert.Equal(t, "deploy", matched[0].Metadata.Name)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		assert.Empty(t, reg.FindByTrigger("nothing relevant", nil))
	})
}

func TestRegistryListAllIsDeterministic(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		s := validSkill()
		s.Metadata.Name = name
		require.NoError(t, reg.Register(s))
	}

	all := reg.ListAll()
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Metadata.Name)
	assert.Equal(t, "mid", all[1].Metadata.Name)
	assert.Equal(t, "zeta", all[2].Metadata.Name)
}
