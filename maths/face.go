package maths

import "errors"

// MachineEpsilon float64 机器精度 2^-52
const MachineEpsilon = 2.220446049250313e-16

// NormalizeEpsilon 归一化时允许的最小模长
const NormalizeEpsilon = 1e-9

// ErrZeroVector 对模长小于 NormalizeEpsilon 的向量做归一化
var ErrZeroVector = errors.New("vector with |v| < 1e-9 normalized")
