package app

import (
	"testing"

	"github.com/Faultbox/animscene/internal/assets"
	"github.com/Faultbox/animscene/internal/config"
)

func TestRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.AssetsConfig)
		want   []assets.Kind
	}{
		{"defaults", func(*config.AssetsConfig) {},
			[]assets.Kind{assets.KindEnvironment, assets.KindCharacter, assets.KindExternalClip}},
		{"with soundtrack", func(a *config.AssetsConfig) { a.Soundtrack = "audio/loop.wav" },
			[]assets.Kind{assets.KindEnvironment, assets.KindCharacter, assets.KindExternalClip, assets.KindSoundtrack}},
		{"no external clip", func(a *config.AssetsConfig) { a.ExternalClip = "" },
			[]assets.Kind{assets.KindEnvironment, assets.KindCharacter}},
		{"nothing", func(a *config.AssetsConfig) { *a = config.AssetsConfig{} }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg.Assets)
			got := Requests(cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d requests, want %d", len(got), len(tt.want))
			}
			for i, k := range tt.want {
				if got[i].Kind != k {
					t.Errorf("request %d kind = %v, want %v", i, got[i].Kind, k)
				}
			}
		})
	}
}

func TestCharacterRequestCarriesTexture(t *testing.T) {
	cfg := config.Default()
	for _, r := range Requests(cfg) {
		if r.Kind == assets.KindCharacter && r.Texture != cfg.Assets.Texture {
			t.Errorf("texture = %q, want %q", r.Texture, cfg.Assets.Texture)
		}
	}
}
