package media

import "sync"

// Preview is the local, pre-upload thumbnail state for one selection.
type Preview struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	DataURL string `json:"dataUrl,omitempty"`
	Ready   bool   `json:"ready"`
}

// PreviewSet tracks previews keyed by selection identity. Generation runs
// asynchronously and may finish out of selection order; keying by ID rather
// than index means a selection removed mid-generation simply has its late
// result dropped instead of landing on a neighbour.
//
// The server itself never generates previews; this is library surface for a
// client shell assembling a selection before it posts the upload.
type PreviewSet struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*Preview
}

func NewPreviewSet() *PreviewSet {
	return &PreviewSet{entries: make(map[string]*Preview)}
}

// Add registers a pending preview for the selection.
func (p *PreviewSet) Add(sel Selection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[sel.ID]; ok {
		return
	}
	p.order = append(p.order, sel.ID)
	p.entries[sel.ID] = &Preview{ID: sel.ID, Name: sel.Name}
}

// Complete attaches the generated thumbnail. It reports false when the
// selection was removed before generation finished.
func (p *PreviewSet) Complete(id, dataURL string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[id]
	if !ok {
		return false
	}
	e.DataURL = dataURL
	e.Ready = true
	return true
}

// Remove drops the selection's preview, ready or not.
func (p *PreviewSet) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[id]; !ok {
		return false
	}
	delete(p.entries, id)
	for i, other := range p.order {
		if other == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns previews in selection order.
func (p *PreviewSet) List() []Preview {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Preview, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.entries[id])
	}
	return out
}
