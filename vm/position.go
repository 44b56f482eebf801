package vm

import "go.creack.net/mars94/op"

// Retry budgets for the random-probe placement strategy.
const (
	positRetries1 = 20
	positRetries2 = 4
)

// place picks a load position for each of n warriors so no two images
// come within sep cells of each other. Warrior 0 always loads at 0.
// It first probes random positions; when the core is too crowded for
// probing to converge it falls back to a shuffled partition.
func place(n, coreSize, sep int, seed int32) ([]int, int32) {
	pos := make([]int, n)
	if n < 2 {
		return pos, seed
	}
	if n == 2 {
		pos[1] = sep + int(seed)%(coreSize+1-2*sep)
		return pos, op.Rand(seed)
	}
	if ok, out := posit(pos, coreSize, sep, &seed); ok {
		return out, seed
	}
	npos(pos, coreSize, sep, &seed)
	return pos, seed
}

// posit probes random slots, retrying on overlap. Exhausting the
// inner budget rolls back to the first conflicting slot; exhausting
// the outer budget gives up.
func posit(pos []int, coreSize, sep int, seed *int32) (bool, []int) {
	slot, r1, r2 := 1, positRetries1, positRetries2
	for slot < len(pos) {
		pos[slot] = sep + int(*seed)%(coreSize-2*sep+1)
		*seed = op.Rand(*seed)

		overlap := -1
		for i := 1; i < slot; i++ {
			if circDist(pos[slot], pos[i], coreSize) < sep {
				overlap = i
				break
			}
		}
		if overlap < 0 && pos[slot] >= sep {
			slot++
			r1 = positRetries1
			continue
		}
		if r1--; r1 > 0 {
			continue
		}
		if r2--; r2 == 0 {
			return false, pos
		}
		if overlap > 0 {
			slot = overlap
		}
		r1 = positRetries1
	}
	return true, pos
}

// npos partitions the free core among the warriors: sorted random
// offsets plus the cumulative separation, then a shuffle so slot
// order is not position order.
func npos(pos []int, coreSize, sep int, seed *int32) {
	room := coreSize - len(pos)*sep + 1
	for i := 1; i < len(pos); i++ {
		v := int(*seed) % room
		*seed = op.Rand(*seed)
		j := i
		for ; j > 1 && pos[j-1] > v; j-- {
			pos[j] = pos[j-1]
		}
		pos[j] = v
	}
	for i := 1; i < len(pos); i++ {
		pos[i] += i * sep
	}
	for i := 1; i < len(pos)-1; i++ {
		j := i + int(*seed)%(len(pos)-i)
		*seed = op.Rand(*seed)
		pos[i], pos[j] = pos[j], pos[i]
	}
}

// circDist is the shortest distance between two core addresses.
func circDist(a, b, coreSize int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if coreSize-d < d {
		return coreSize - d
	}
	return d
}
