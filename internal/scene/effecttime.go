package scene

import "time"

// SetEffectTimeSync sets the instant at which TimeMs uniforms read zero.
// The zero time makes them count from the Unix epoch.
func (s *Scene) SetEffectTimeSync(t time.Time) {
	s.effectTimeSync = t
}

// EffectTimeSync returns the instant at which TimeMs uniforms read zero.
func (s *Scene) EffectTimeSync() time.Time {
	return s.effectTimeSync
}

// SetActiveShaderAnimation records whether a rendered effect read TimeMs.
func (s *Scene) SetActiveShaderAnimation(active bool) {
	s.activeShaderAnimation = active
}

// HasActiveShaderAnimation reports whether the last rendered frame drew an
// effect that reads TimeMs, so the scene has to be redrawn even if unchanged.
func (s *Scene) HasActiveShaderAnimation() bool {
	return s.activeShaderAnimation
}

// EffectTimeMs is the TimeMs value at now, in milliseconds since sync. It
// wraps around the int32 range.
func EffectTimeMs(sync, now time.Time) int32 {
	if sync.IsZero() {
		return int32(now.UnixMilli())
	}
	return int32(now.Sub(sync).Milliseconds())
}
