package knowledge

import (
	"fmt"
	"sort"
)

// FlatIndex 精确的平坦向量索引，使用平方欧氏距离（L2）暴力检索
// 距离越小表示越相似；向量不做归一化
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// NewFlatIndex 创建指定维度的索引
func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// Dim 返回索引维度
func (idx *FlatIndex) Dim() int {
	return idx.dim
}

// Len 返回已索引向量数量
func (idx *FlatIndex) Len() int {
	return len(idx.vectors)
}

// Add 批量追加向量，整批维度校验
func (idx *FlatIndex) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != idx.dim {
			return fmt.Errorf("向量维度不匹配: 索引维度=%d, 第%d个向量维度=%d", idx.dim, i, len(v))
		}
	}
	idx.vectors = append(idx.vectors, vectors...)
	return nil
}

// Search 检索与query最近的k个向量
// 返回距离升序排列的 (distances, ids)，长度为 min(k, Len())
// 距离相同时按插入序号升序，保证结果确定性
func (idx *FlatIndex) Search(query []float32, k int) ([]float32, []int) {
	if len(idx.vectors) == 0 || k <= 0 || len(query) != idx.dim {
		return nil, nil
	}
	if k > len(idx.vectors) {
		k = len(idx.vectors)
	}

	type scored struct {
		id   int
		dist float32
	}

	candidates := make([]scored, len(idx.vectors))
	for i, v := range idx.vectors {
		candidates[i] = scored{id: i, dist: squaredL2(query, v)}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].id < candidates[j].id
	})

	distances := make([]float32, k)
	ids := make([]int, k)
	for i := 0; i < k; i++ {
		distances[i] = candidates[i].dist
		ids[i] = candidates[i].id
	}
	return distances, ids
}

// squaredL2 计算平方欧氏距离
func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
