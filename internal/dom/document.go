// Package dom models the named containers a dashboard page writes into.
package dom

import "sync"

const (
	CurrentWeatherID    = "current-weather"
	AdditionalWeatherID = "additional-weather"
	UserInputID         = "userInput"
)

// Update is published every time an element's content is replaced.
type Update struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// Document is a set of elements addressed by id.
type Document struct {
	mu       sync.RWMutex
	elements map[string]*Element
	subs     map[int]chan Update
	nextSub  int
}

// NewDocument creates a document holding one empty element per id.
func NewDocument(ids ...string) *Document {
	doc := &Document{
		elements: make(map[string]*Element, len(ids)),
		subs:     make(map[int]chan Update),
	}
	for _, id := range ids {
		doc.elements[id] = &Element{id: id, doc: doc}
	}
	return doc
}

// NewDashboardDocument creates the document served by the dashboard page.
func NewDashboardDocument() *Document {
	return NewDocument(CurrentWeatherID, AdditionalWeatherID, UserInputID)
}

// Lookup returns the element with the given id, or nil if the document has none.
func (d *Document) Lookup(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.elements[id]
}

// Subscribe returns a channel of content updates. Slow subscribers miss
// updates rather than block writers. cancel closes the channel.
func (d *Document) Subscribe(buffer int) (<-chan Update, func()) {
	ch := make(chan Update, buffer)
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	d.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (d *Document) publish(u Update) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, ch := range d.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Element is a container whose content is always replaced wholesale.
type Element struct {
	id  string
	doc *Document

	mu        sync.RWMutex
	innerHTML string
}

func (e *Element) ID() string { return e.id }

func (e *Element) InnerHTML() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.innerHTML
}

// SetInnerHTML replaces the element's content and notifies subscribers.
func (e *Element) SetInnerHTML(html string) {
	e.mu.Lock()
	e.innerHTML = html
	e.mu.Unlock()
	e.doc.publish(Update{ID: e.id, HTML: html})
}
