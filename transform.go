package arbor

import "math"

// Transform is an affine map from a local coordinate frame to the parent's
// frame, stored as a 4x4 row-major matrix. The zero value is NOT valid; use
// Identity or one of the constructors. Transforms are immutable values;
// every operation returns a new Transform.
type Transform struct {
	m [16]float64
}

// transformEps is the tolerance used by Eq and the singularity check.
const transformEps = 1e-12

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{m: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translation returns a transform that translates by (x, y, z).
func Translation(x, y, z float64) Transform {
	t := Identity()
	t.m[3] = x
	t.m[7] = y
	t.m[11] = z
	return t
}

// Scaling returns a transform that scales by (sx, sy, sz).
func Scaling(sx, sy, sz float64) Transform {
	t := Identity()
	t.m[0] = sx
	t.m[5] = sy
	t.m[10] = sz
	return t
}

// RotationZ returns a transform that rotates by angle radians about the Z
// axis (counterclockwise in the XY plane).
func RotationZ(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	t := Identity()
	t.m[0] = cos
	t.m[1] = -sin
	t.m[4] = sin
	t.m[5] = cos
	return t
}

// Matrix returns the 4x4 row-major matrix elements.
func (t Transform) Matrix() [16]float64 {
	return t.m
}

// fromMatrix wraps raw matrix elements. Used by deserialization.
func fromMatrix(m [16]float64) Transform {
	return Transform{m: m}
}

// Mul returns t * other: the transform that applies other first, then t.
func (t Transform) Mul(other Transform) Transform {
	var r Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t.m[row*4+k] * other.m[k*4+col]
			}
			r.m[row*4+col] = sum
		}
	}
	return r
}

// Chain composes a sequence of transforms into one, mapping coordinates from
// the first transform's source frame to the last transform's target frame
// (right-to-left matrix multiplication). An empty chain is the identity; a
// single-element chain is a copy. Composition is associative.
func Chain(ts ...Transform) Transform {
	r := Identity()
	for _, t := range ts {
		r = t.Mul(r)
	}
	return r
}

// Inverse returns the inverse transform, or a SingularTransformError if the
// matrix is not invertible. The receiver must be affine (bottom row
// 0, 0, 0, 1), which holds for every transform this package constructs.
func (t Transform) Inverse() (Transform, error) {
	// Invert the upper-left 3x3 block by adjugate, then solve for the
	// translation column.
	a, b, c := t.m[0], t.m[1], t.m[2]
	d, e, f := t.m[4], t.m[5], t.m[6]
	g, h, i := t.m[8], t.m[9], t.m[10]

	ca := e*i - f*h
	cb := f*g - d*i
	cc := d*h - e*g
	det := a*ca + b*cb + c*cc
	if det > -transformEps && det < transformEps {
		return Transform{}, &SingularTransformError{Det: det}
	}
	invDet := 1.0 / det

	var r Transform
	r.m[0] = ca * invDet
	r.m[1] = (c*h - b*i) * invDet
	r.m[2] = (b*f - c*e) * invDet
	r.m[4] = cb * invDet
	r.m[5] = (a*i - c*g) * invDet
	r.m[6] = (c*d - a*f) * invDet
	r.m[8] = cc * invDet
	r.m[9] = (b*g - a*h) * invDet
	r.m[10] = (a*e - b*d) * invDet

	tx, ty, tz := t.m[3], t.m[7], t.m[11]
	r.m[3] = -(r.m[0]*tx + r.m[1]*ty + r.m[2]*tz)
	r.m[7] = -(r.m[4]*tx + r.m[5]*ty + r.m[6]*tz)
	r.m[11] = -(r.m[8]*tx + r.m[9]*ty + r.m[10]*tz)
	r.m[15] = 1
	return r, nil
}

// Apply maps a point from the transform's source frame to its target frame.
func (t Transform) Apply(p Vec3) Vec3 {
	return Vec3{
		X: t.m[0]*p.X + t.m[1]*p.Y + t.m[2]*p.Z + t.m[3],
		Y: t.m[4]*p.X + t.m[5]*p.Y + t.m[6]*p.Z + t.m[7],
		Z: t.m[8]*p.X + t.m[9]*p.Y + t.m[10]*p.Z + t.m[11],
	}
}

// Eq reports whether two transforms are element-wise equal within tolerance.
func (t Transform) Eq(other Transform) bool {
	return t.EqTol(other, transformEps)
}

// EqTol is Eq with a caller-supplied tolerance. Useful when comparing long
// transform chains where rounding exceeds transformEps.
func (t Transform) EqTol(other Transform, tol float64) bool {
	for i := range t.m {
		if math.Abs(t.m[i]-other.m[i]) > tol {
			return false
		}
	}
	return true
}
