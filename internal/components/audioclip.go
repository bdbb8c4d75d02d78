package components

import (
	"lava/internal/engine"
	"lava/internal/native"
	"lava/internal/prop"
)

func init() {
	engine.RegisterComponent("AudioClip", func(ctx *engine.Context, props map[string]any) (engine.Component, error) {
		a := engine.New[AudioClip](ctx)
		if path := prop.String(props, "path", ""); path != "" {
			a.Load(path)
		}
		a.SetVolume(prop.Float(props, "volume", a.volume))
		a.SetLooping(prop.Bool(props, "loop", false))
		a.PlayOnAdd = prop.Bool(props, "playOnStart", false)
		return a, nil
	})
}

// AudioClip plays one sound. Playback stops when the entity leaves its world.
type AudioClip struct {
	engine.BaseComponent
	PlayOnAdd bool

	sound   native.SoundHandle
	path    string
	volume  float32
	loop    bool
	playing bool
}

func (a *AudioClip) OnInit() { a.volume = 1.0 }

func (a *AudioClip) Capability() engine.Capability { return engine.CapAudio }

func (a *AudioClip) Load(path string) {
	a.Stop()
	a.path = path
	n := a.Context().Native()
	a.sound = n.LoadSound(path)
	n.SetSoundVolume(a.sound, a.volume)
	n.SetSoundLooping(a.sound, a.loop)
}

func (a *AudioClip) Path() string    { return a.path }
func (a *AudioClip) Volume() float32 { return a.volume }
func (a *AudioClip) Looping() bool   { return a.loop }
func (a *AudioClip) IsPlaying() bool { return a.playing }
func (a *AudioClip) Loaded() bool    { return a.sound != 0 }

func (a *AudioClip) Play() {
	if a.sound == 0 {
		return
	}
	a.Context().Native().PlaySound(a.sound)
	a.playing = true
}

func (a *AudioClip) Stop() {
	if a.sound == 0 || !a.playing {
		return
	}
	a.Context().Native().StopSound(a.sound)
	a.playing = false
}

func (a *AudioClip) SetVolume(v float32) {
	a.volume = max(0, min(v, 1))
	if a.sound != 0 {
		a.Context().Native().SetSoundVolume(a.sound, a.volume)
	}
}

func (a *AudioClip) SetLooping(loop bool) {
	a.loop = loop
	if a.sound != 0 {
		a.Context().Native().SetSoundLooping(a.sound, loop)
	}
}

func (a *AudioClip) OnWorldAdd(w *engine.World) {
	if a.PlayOnAdd {
		a.Play()
	}
}

func (a *AudioClip) OnWorldRemove(w *engine.World) { a.Stop() }
func (a *AudioClip) OnDestroy()                    { a.Stop() }
