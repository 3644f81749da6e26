// Package sparse 提供稀疏向量：int64 键到 float64 值的映射，缺失键表示
// "不存在"而不是 0。评分向量（key=物品）和标签向量（key=标签）共用这一抽象。
//
// 两种形态：
//   - MutableVector：构建期的可变向量，由 builder 独占
//   - Vector：冻结后的只读向量，可在多个 goroutine 间共享
//
// Freeze 总是拷贝底层存储：冻结之后继续改 MutableVector 不会影响已冻结的副本。
package sparse

import (
	"math"
	"sort"
)

// Vector 是冻结的只读稀疏向量。零值是空向量，可直接使用。
type Vector struct {
	values map[int64]float64
}

// MutableVector 是构建期的可变稀疏向量。非并发安全。
type MutableVector struct {
	values map[int64]float64
}

// NewMutable 创建空的可变向量。
func NewMutable() *MutableVector {
	return &MutableVector{values: make(map[int64]float64)}
}

// MutableFromMap 从 map 拷贝创建可变向量（不持有 m 的引用）。
func MutableFromMap(m map[int64]float64) *MutableVector {
	values := make(map[int64]float64, len(m))
	for k, v := range m {
		values[k] = v
	}
	return &MutableVector{values: values}
}

// FromMap 从 map 拷贝创建冻结向量。
func FromMap(m map[int64]float64) Vector {
	return MutableFromMap(m).Freeze()
}

// Set 设置键的值。
func (v *MutableVector) Set(key int64, value float64) {
	v.values[key] = value
}

// Add 对键的当前值累加 delta；键不存在时视为从 0 开始。
func (v *MutableVector) Add(key int64, delta float64) {
	v.values[key] += delta
}

// Get 返回键的值；第二个返回值表示键是否存在。
func (v *MutableVector) Get(key int64) (float64, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Len 返回存在的键数量。
func (v *MutableVector) Len() int { return len(v.values) }

// Keys 返回存在的键（升序，保证确定性遍历）。
func (v *MutableVector) Keys() []int64 { return sortedKeys(v.values) }

// AddScalar 对每个存在的键加 c（用于均值中心化：AddScalar(-mean)）。
func (v *MutableVector) AddScalar(c float64) {
	for k := range v.values {
		v.values[k] += c
	}
}

// Scale 对每个存在的键乘 c（用于单位化：Scale(1/norm)）。
func (v *MutableVector) Scale(c float64) {
	for k := range v.values {
		v.values[k] *= c
	}
}

// Mean 返回存在值的算术平均；空向量返回 (0, false)，调用方必须兜底。
func (v *MutableVector) Mean() (float64, bool) {
	return mean(v.values)
}

// Norm 返回欧几里得范数；空向量为 0。
func (v *MutableVector) Norm() float64 {
	return norm(v.values)
}

// Freeze 拷贝出一个冻结向量。冻结后继续修改源向量不影响返回值。
func (v *MutableVector) Freeze() Vector {
	values := make(map[int64]float64, len(v.values))
	for k, val := range v.values {
		values[k] = val
	}
	return Vector{values: values}
}

// Get 返回键的值；第二个返回值表示键是否存在。
// 不存在的键语义上是"不可得"，调用方决定当 0 还是走兜底路径。
func (v Vector) Get(key int64) (float64, bool) {
	val, ok := v.values[key]
	return val, ok
}

// Len 返回存在的键数量。
func (v Vector) Len() int { return len(v.values) }

// Keys 返回存在的键（升序）。
func (v Vector) Keys() []int64 { return sortedKeys(v.values) }

// Dot 返回与 o 的点积：只累加两边都存在的键；无交集为 0。
func (v Vector) Dot(o Vector) float64 {
	a, b := v.values, o.values
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			sum += av * bv
		}
	}
	return sum
}

// Norm 返回欧几里得范数；空向量为 0。
func (v Vector) Norm() float64 {
	return norm(v.values)
}

// Mean 返回存在值的算术平均；空向量返回 (0, false)，调用方必须兜底。
func (v Vector) Mean() (float64, bool) {
	return mean(v.values)
}

// Mutable 拷贝出一个可变向量（不与冻结向量共享存储）。
func (v Vector) Mutable() *MutableVector {
	return MutableFromMap(v.values)
}

// Cosine 返回两个向量的余弦相似度 dot/(|a|·|b|)。
// 任一向量范数为 0 时相似度未定义，约定返回 0（不会除零）。
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return a.Dot(b) / (na * nb)
}

func norm(values map[int64]float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func mean(values map[int64]float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

func sortedKeys(values map[int64]float64) []int64 {
	keys := make([]int64, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
