package services

import (
	"container/heap"

	"github.com/zyedidia/generic/mapset"

	"swords-with-friends/server/models"
)

type pathNode struct {
	point  models.Coordinate
	g      int
	f      int
	seq    int
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

// Less orders by estimated cost, then by discovery order so equal-cost
// paths come out the same on every run.
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath runs an 8-directional A* from start to goal. Every step costs one
// turn. The start cell is never checked, so an actor cannot block itself.
// The result excludes start and ends at goal; it is empty when goal cannot
// be reached.
func FindPath(start, goal models.Coordinate, traversable func(models.Coordinate) bool) []models.Coordinate {
	if start == goal || !IsValidCoordinate(goal.X, goal.Y) || !traversable(goal) {
		return []models.Coordinate{}
	}

	open := &pathQueue{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{point: start, f: ChebyshevDistance(start, goal), seq: seq})
	gScore := map[models.Coordinate]int{start: 0}
	closed := mapset.New[models.Coordinate]()

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if closed.Has(current.point) {
			continue
		}
		closed.Put(current.point)
		if current.point == goal {
			return reconstructPath(current)
		}

		for _, next := range Neighbours(current.point) {
			if closed.Has(next) || !traversable(next) {
				continue
			}
			tentativeG := current.g + 1
			if prev, ok := gScore[next]; ok && tentativeG >= prev {
				continue
			}
			gScore[next] = tentativeG
			seq++
			heap.Push(open, &pathNode{
				point:  next,
				g:      tentativeG,
				f:      tentativeG + ChebyshevDistance(next, goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return []models.Coordinate{}
}

// reconstructPath walks parents back to the start, dropping the start cell
func reconstructPath(end *pathNode) []models.Coordinate {
	path := make([]models.Coordinate, 0)
	for node := end; node != nil && node.parent != nil; node = node.parent {
		path = append(path, node.point)
	}
	for i := 0; i < len(path)/2; i++ {
		j := len(path) - 1 - i
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PlayerPath plans a move for p. The goal itself may hold a monster so that
// clicking an enemy plans an approach that ends in an attack.
func PlayerPath(game *models.Game, p *models.Player, goal models.Coordinate) []models.Coordinate {
	level := game.Level(p.MapLevel)
	if level == nil {
		return []models.Coordinate{}
	}
	return FindPath(p.Position(), goal, func(c models.Coordinate) bool {
		if c == goal {
			return level.IsPassable(c)
		}
		return IsPathableCell(game, p.MapLevel, c, false)
	})
}

// MonsterPath plans a chase for m towards goal, which may be the cell of
// the player it is hunting.
func MonsterPath(game *models.Game, level int, m *models.Monster, goal models.Coordinate) []models.Coordinate {
	dl := game.Level(level)
	if dl == nil {
		return []models.Coordinate{}
	}
	return FindPath(m.Position(), goal, func(c models.Coordinate) bool {
		if c == goal {
			return dl.IsPassable(c)
		}
		return IsPathableCell(game, level, c, true)
	})
}
