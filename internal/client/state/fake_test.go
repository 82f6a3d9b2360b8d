package state

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/atinyakov/BlogSync/internal/client/api"
)

// fakeRemote is an in-memory json-server stand-in with call counters and
// error injection.
type fakeRemote struct {
	mu      sync.Mutex
	records map[api.Collection][]map[string]any
	calls   map[string]int
	errs    map[string]error

	// afterGet runs after a Get has read its record, outside the lock.
	afterGet func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		records: map[api.Collection][]map[string]any{},
		calls:   map[string]int{},
		errs:    map[string]error{},
	}
}

func key(method string, col api.Collection) string {
	return method + " " + string(col)
}

func (f *fakeRemote) failOn(method string, col api.Collection, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key(method, col)] = err
}

func (f *fakeRemote) count(method string, col api.Collection) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key(method, col)]
}

func (f *fakeRemote) seed(col api.Collection, v any) {
	doc := toDoc(v)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[col] = append(f.records[col], doc)
}

func (f *fakeRemote) enter(method string, col api.Collection) error {
	f.calls[key(method, col)]++
	return f.errs[key(method, col)]
}

func (f *fakeRemote) find(col api.Collection, id string) int {
	for i, r := range f.records[col] {
		if r["id"] == id {
			return i
		}
	}
	return -1
}

func notFound() error {
	return &api.APIError{Status: http.StatusNotFound, Body: "{}"}
}

func (f *fakeRemote) List(_ context.Context, col api.Collection, field, value string, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("List", col); err != nil {
		return err
	}
	res := []map[string]any{}
	for _, r := range f.records[col] {
		if field == "" || fmt.Sprint(r[field]) == value {
			res = append(res, r)
		}
	}
	return decodeInto(res, out)
}

func (f *fakeRemote) Get(_ context.Context, col api.Collection, id string, out any) error {
	f.mu.Lock()
	if err := f.enter("Get", col); err != nil {
		f.mu.Unlock()
		return err
	}
	i := f.find(col, id)
	if i < 0 {
		f.mu.Unlock()
		return notFound()
	}
	err := decodeInto(f.records[col][i], out)
	hook := f.afterGet
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeRemote) Create(_ context.Context, col api.Collection, in, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Create", col); err != nil {
		return err
	}
	doc := toDoc(in)
	f.records[col] = append(f.records[col], doc)
	return decodeInto(doc, out)
}

func (f *fakeRemote) Patch(_ context.Context, col api.Collection, id string, patch, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Patch", col); err != nil {
		return err
	}
	i := f.find(col, id)
	if i < 0 {
		return notFound()
	}
	merged := map[string]any{}
	for k, v := range f.records[col][i] {
		merged[k] = v
	}
	for k, v := range toDoc(patch) {
		if k != "id" {
			merged[k] = v
		}
	}
	f.records[col][i] = merged
	return decodeInto(merged, out)
}

func (f *fakeRemote) Delete(_ context.Context, col api.Collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Delete", col); err != nil {
		return err
	}
	i := f.find(col, id)
	if i < 0 {
		return notFound()
	}
	f.records[col] = append(f.records[col][:i:i], f.records[col][i+1:]...)
	return nil
}

func toDoc(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(b, &doc); err != nil {
		panic(err)
	}
	return doc
}

func decodeInto(v, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
