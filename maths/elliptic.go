package maths

import "gonum.org/v1/gonum/mathext"

// clamp01 将参数限制在 [0,1]，抵消舍入误差带来的越界
func clamp01(m float64) float64 {
	switch {
	case m < 0:
		return 0
	case m > 1:
		return 1
	}
	return m
}

// EllipE 第二类完全椭圆积分 E(m)，m 为参数（非模数）
func EllipE(m float64) float64 {
	return mathext.CompleteE(clamp01(m))
}

// EllipKM1 第一类完全椭圆积分的互补参数形式 K(1-p)
func EllipKM1(p float64) float64 {
	return mathext.CompleteK(1 - clamp01(p))
}
