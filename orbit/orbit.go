// Package orbit holds the scripted orbital mechanics: per-frame self-rotation
// increments derived from rotation periods, and closed-form circular orbit
// positions derived from elapsed time.
package orbit

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SecondsPerDay converts periods given in days to seconds.
const SecondsPerDay = 24 * 60 * 60

// RotationAngle returns the self-rotation increment in degrees per frame for
// a body that turns once every periodDays, at frameRate frames per second.
func RotationAngle(periodDays, frameRate float64) float64 {
	degreesPerSecond := 360 / (periodDays * SecondsPerDay)
	return degreesPerSecond / frameRate
}

// AngularVelocity returns the orbital angular velocity in radians per second
// of simulated time, compressed by translationFactor.
func AngularVelocity(period, translationFactor float64) float64 {
	return (2 * math.Pi / period) * translationFactor
}

// Position returns the location at elapsed time t on a circular orbit of
// radius distance in the XZ plane. It is evaluated from t directly rather
// than integrated, so it never drifts. A distance of zero is the orbit center.
func Position(t, translationFactor, period, distance float64) mgl64.Vec3 {
	if distance == 0 {
		return mgl64.Vec3{}
	}
	angle := AngularVelocity(period, translationFactor) * t
	return mgl64.Vec3{
		distance * math.Cos(angle),
		0,
		distance * math.Sin(angle),
	}
}

// OrbitDuration returns the elapsed time needed for one full orbit.
func OrbitDuration(period, translationFactor float64) float64 {
	return 2 * math.Pi / AngularVelocity(period, translationFactor)
}
