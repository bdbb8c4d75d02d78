package rlbackend

import (
	"lava/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// source represents a loaded sound and what the managed side asked of it.
type source struct {
	sound   rl.Sound
	path    string
	volume  float32
	loop    bool
	playing bool
}

// Mixer implements native.Audio. raylib has no looping flag for sounds, so
// Update restarts looping sources that ran out.
type Mixer struct {
	log     *zap.Logger
	ready   func() bool
	next    uint64
	sources map[native.SoundHandle]*source
}

func NewMixer(ready func() bool, log *zap.Logger) *Mixer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mixer{
		log:     log.Named("audio"),
		ready:   ready,
		sources: make(map[native.SoundHandle]*source),
	}
}

func (m *Mixer) source(h native.SoundHandle) *source {
	s, ok := m.sources[h]
	if !ok {
		m.log.Warn("unknown sound", zap.Uint64("sound", uint64(h)))
	}
	return s
}

func (m *Mixer) LoadSound(path string) native.SoundHandle {
	if m.ready != nil && !m.ready() {
		m.log.Warn("sound load before audio device open", zap.String("path", path))
		return 0
	}
	sound := rl.LoadSound(path)
	if !rl.IsSoundValid(sound) {
		m.log.Warn("sound failed to load", zap.String("path", path))
		return 0
	}
	m.next++
	h := native.SoundHandle(m.next)
	m.sources[h] = &source{sound: sound, path: path, volume: 1}
	return h
}

func (m *Mixer) PlaySound(h native.SoundHandle) {
	if s := m.source(h); s != nil {
		rl.PlaySound(s.sound)
		s.playing = true
	}
}

func (m *Mixer) StopSound(h native.SoundHandle) {
	if s := m.source(h); s != nil {
		rl.StopSound(s.sound)
		s.playing = false
	}
}

func (m *Mixer) SetSoundLooping(h native.SoundHandle, loop bool) {
	if s := m.source(h); s != nil {
		s.loop = loop
	}
}

func (m *Mixer) SetSoundVolume(h native.SoundHandle, volume float32) {
	if s := m.source(h); s != nil {
		s.volume = volume
		rl.SetSoundVolume(s.sound, volume)
	}
}

// Update restarts finished looping sources and retires finished one-shots.
func (m *Mixer) Update() {
	for _, s := range m.sources {
		if !s.playing || rl.IsSoundPlaying(s.sound) {
			continue
		}
		if s.loop {
			rl.PlaySound(s.sound)
		} else {
			s.playing = false
		}
	}
}

// Playing reports how many sources are playing.
func (m *Mixer) Playing() int {
	n := 0
	for _, s := range m.sources {
		if s.playing {
			n++
		}
	}
	return n
}

func (m *Mixer) Unload() {
	for _, s := range m.sources {
		rl.UnloadSound(s.sound)
	}
	clear(m.sources)
}

var _ native.Audio = (*Mixer)(nil)
