package smath

// 2D affine transforms, used for roll rotation of star positions.

import(
	"math"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use a local type so we can hang methods off it
type Aff3 f64.Aff3

func (p Aff3)Mult(q Aff3) Aff3 {
	return Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func Identity() Aff3 {
	return Aff3{1, 0, 0,   0, 1, 0}
}

func (m1 Aff3)Translate(tx, ty float64) Aff3 {
	return m1.Mult(Aff3{1, 0, tx,   0, 1, ty})
}

func (m1 Aff3)Rotate(thetaDeg float64) Aff3 {
	cosTheta := math.Cos(thetaDeg * math.Pi / 180.0)
	sinTheta := math.Sin(thetaDeg * math.Pi / 180.0)
	return m1.Mult(Aff3{cosTheta, -1*sinTheta, 0,    sinTheta, cosTheta, 0})
}

func RotateAbout(thetaDeg, x, y float64) Aff3 {
	// Remember they compose back to front - rightmost operations performed first
	return Identity().Translate(x, y).Rotate(thetaDeg).Translate(-1*x, -1*y)
}

func (m Aff3)Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// RotatePos rotates target-relative detector coordinates by a
// spacecraft roll angle, in degrees. The detector y axis runs the
// opposite sense to sky coordinates, so this is a rotation by -roll
// in the usual convention.
func RotatePos(xs, ys []float64, rollDeg float64) ([]float64, []float64) {
	m := Identity().Rotate(-1*rollDeg)
	rx := make([]float64, len(xs))
	ry := make([]float64, len(ys))
	for i := range xs {
		rx[i], ry[i] = m.Apply(xs[i], ys[i])
	}
	return rx, ry
}

// DerotatePos is the exact inverse of RotatePos for the same angle.
func DerotatePos(xs, ys []float64, rollDeg float64) ([]float64, []float64) {
	return RotatePos(xs, ys, -1*rollDeg)
}

// RotatePoint is RotatePos for a single coordinate pair.
func RotatePoint(x, y, rollDeg float64) (float64, float64) {
	return Identity().Rotate(-1*rollDeg).Apply(x, y)
}
