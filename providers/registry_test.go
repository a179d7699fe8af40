package providers

import (
	"catch-guard/contract"
	"catch-guard/domain"
	errs "catch-guard/errors"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func testProviders(t *testing.T) []contract.Provider {
	t.Helper()
	wordlist, err := NewDefaultWordlistProvider()
	require.NoError(t, err)
	return []contract.Provider{
		wordlist,
		NewOpenAIProvider("test-key", "gpt-4o-mini", 0, 512),
	}
}

func TestNewRegistry_ResolvesDefaultAndOverrides(t *testing.T) {
	req := require.New(t)

	registry, err := NewRegistry("wordlist", testProviders(t),
		map[string]string{"catch_photos": "openai"}, nil)
	req.NoError(err)

	defaultProvider, err := registry.Resolve(domain.CatchComments)
	req.NoError(err)
	req.Equal("wordlist", defaultProvider.ID())

	overridden, err := registry.Resolve(domain.CatchPhotos)
	req.NoError(err)
	req.Equal("openai", overridden.ID())
}

func TestNewRegistry_FailsFast(t *testing.T) {
	tests := []struct {
		name          string
		defaultID     string
		overrides     map[string]string
		disabledTypes []string
	}{
		{
			name:      "Unknown default provider",
			defaultID: "acme",
		},
		{
			name:      "Override references unregistered provider",
			defaultID: "wordlist",
			overrides: map[string]string{"catch_photos": "anthropic"},
		},
		{
			name:      "Override for unknown content type",
			defaultID: "wordlist",
			overrides: map[string]string{"survey_answers": "openai"},
		},
		{
			name:          "Unknown disabled content type",
			defaultID:     "wordlist",
			disabledTypes: []string{"survey_answers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := NewRegistry(tt.defaultID, testProviders(t), tt.overrides, tt.disabledTypes)
			req.Error(err)
			req.ErrorIs(err, errs.ErrMisconfigured)
		})
	}
}

func TestRegistry_Enabled(t *testing.T) {
	req := require.New(t)

	registry, err := NewRegistry("wordlist", testProviders(t), nil, []string{"user_bio"})
	req.NoError(err)

	req.True(registry.Enabled(domain.CatchPhotos))
	req.False(registry.Enabled(domain.UserBio))
	req.False(registry.Enabled(domain.ContentType("survey_answers")))
}

func TestWordlistProvider_Verdicts(t *testing.T) {
	req := require.New(t)

	provider, err := NewWordlistProvider([]string{"dynamite", "poaching"})
	req.NoError(err)

	clean, err := provider.ModerateText(context.Background(), domain.CatchDescriptions, "Caught a fine pike on a spoon lure")
	req.NoError(err)
	req.True(clean.Approved)
	req.GreaterOrEqual(clean.Confidence, 0.9)

	flagged, err := provider.ModerateText(context.Background(), domain.CatchDescriptions, "Got them all with d.y.n.4.m.i.t.e")
	req.NoError(err)
	req.False(flagged.Approved)
	req.Contains(flagged.Categories, "profanity")
	req.Contains(flagged.Categories, "dynamite")

	_, err = provider.ModerateImage(context.Background(), domain.CatchPhotos, "/tmp/photo.jpg")
	req.ErrorIs(err, errs.ErrUnsupportedFormat)
}
