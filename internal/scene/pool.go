package scene

import "fmt"

// pool stores scene objects addressed by dense integer handles.
// Released slots are not reused unless a caller asks for a specific handle.
type pool[H ~uint32, T any] struct {
	kind  string
	items []*T
}

func newPool[H ~uint32, T any](kind string) pool[H, T] {
	return pool[H, T]{kind: kind}
}

func (p *pool[H, T]) allocate(v T) H {
	p.items = append(p.items, &v)
	return H(len(p.items) - 1)
}

func (p *pool[H, T]) allocateAt(h H, v T) H {
	for int(h) >= len(p.items) {
		p.items = append(p.items, nil)
	}
	if p.items[h] != nil {
		panic(fmt.Sprintf("scene: %s %d already allocated", p.kind, h))
	}
	p.items[h] = &v
	return h
}

func (p *pool[H, T]) release(h H) {
	p.get(h)
	p.items[h] = nil
}

func (p *pool[H, T]) lookup(h H) (*T, bool) {
	if int(h) >= len(p.items) || p.items[h] == nil {
		return nil, false
	}
	return p.items[h], true
}

func (p *pool[H, T]) has(h H) bool {
	_, ok := p.lookup(h)
	return ok
}

func (p *pool[H, T]) get(h H) *T {
	v, ok := p.lookup(h)
	if !ok {
		panic(fmt.Sprintf("scene: unknown %s %d", p.kind, h))
	}
	return v
}

// each visits allocated slots in handle order.
func (p *pool[H, T]) each(fn func(H, *T)) {
	for i, v := range p.items {
		if v != nil {
			fn(H(i), v)
		}
	}
}
