package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCache_Dedup(t *testing.T) {
	c := NewCache(2)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.Get("a", func() ([]byte, error) {
				calls.Add(1)
				<-release
				return []byte("model"), nil
			})
			if err != nil || string(data) != "model" {
				t.Errorf("unexpected result %q %v", data, err)
			}
		}()
	}
	close(release)
	wg.Wait()

	// Late callers hit the cache, so at most a handful of fetches ran.
	if _, err := c.Get("a", func() ([]byte, error) {
		t.Fatal("expected a cache hit")
		return nil, nil
	}); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if calls.Load() == 0 {
		t.Fatal("expected at least one fetch")
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c := NewCache(2)
	for _, key := range []string{"a", "b", "c"} {
		if _, err := c.Get(key, func() ([]byte, error) { return []byte(key), nil }); err != nil {
			t.Fatalf("Get(%s) error: %v", key, err)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.lookup("a"); ok {
		t.Fatal("expected the oldest entry to be evicted")
	}
	c.Forget("b")
	if _, ok := c.lookup("b"); ok {
		t.Fatal("expected b to be forgotten")
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := NewCache(0)
	boom := errors.New("boom")
	if _, err := c.Get("a", func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected an empty cache, got %d", c.Len())
	}
}

type staticLoader struct {
	data []byte
}

func (s staticLoader) GetFileBytes(ctx context.Context, file ModelFile) ([]byte, error) {
	return s.data, nil
}

func TestModelFile_GetModel(t *testing.T) {
	step := "ISO-10303-21;\nHEADER;\nFILE_DESCRIPTION((''),'2;1');\nFILE_NAME('a.ifc','',(''),(''),'','','');\nFILE_SCHEMA(('IFC4'));\nENDSEC;\nDATA;\n#1=IFCPROJECT('0Prj100000000000000000',$,'P',$,$,$,$,$,$);\nENDSEC;\nEND-ISO-10303-21;\n"
	f := ModelFile{ID: "1", FilePath: "models/1/source/a.ifc", Loader: staticLoader{data: []byte(step)}}

	m, err := f.GetModel(context.Background())
	if err != nil {
		t.Fatalf("GetModel error: %v", err)
	}
	if len(m.ByType("IfcProject")) != 1 {
		t.Fatal("expected the project")
	}

	bad := ModelFile{FilePath: "x.ifc", Loader: staticLoader{data: []byte("garbage")}}
	if _, err := bad.GetModel(context.Background()); err == nil {
		t.Fatal("expected a parse error")
	}
	if _, err := (ModelFile{FilePath: "x.ifc"}).GetBytes(context.Background()); err == nil {
		t.Fatal("expected an error without loader")
	}
}
