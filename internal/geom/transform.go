package geom

import "github.com/go-gl/mathgl/mgl64"

// Orientation is yaw/pitch/roll in degrees.
type Orientation struct {
	Yaw   float64
	Pitch float64
	Roll  float64
}

// WorldMatrix builds a translation * yaw(Y) * pitch(X) * roll(Z) matrix.
func WorldMatrix(position mgl64.Vec3, o Orientation) mgl64.Mat4 {
	rot := mgl64.HomogRotate3DY(mgl64.DegToRad(o.Yaw)).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(o.Pitch))).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(o.Roll)))
	return mgl64.Translate3D(position[0], position[1], position[2]).Mul4(rot)
}
