package utils

import "math"

// return the point of the condition support that is not farther than eps from the support boundary
// invariant: at *right* condition must be TRUE
func BinarySearch(condition func(float64) bool, falseDom, trueDom, eps float64) (float64, float64) {
	for math.Abs(trueDom-falseDom) > eps {
		c := (falseDom + trueDom) * 0.5
		if condition(c) {
			trueDom = c
		} else {
			falseDom = c
		}
	}
	return falseDom, trueDom
}

// Bisect finds the root of a monotone f on [a, b] up to eps.
func Bisect(f func(float64) float64, a, b, eps float64) float64 {
	positiveAtB := f(b) > 0
	l, r := BinarySearch(func(x float64) bool {
		return (f(x) > 0) == positiveAtB
	}, a, b, eps)
	return 0.5 * (l + r)
}
