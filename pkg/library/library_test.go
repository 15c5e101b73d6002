package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

func raised(deg float64) posture.Posture {
	r := rig.New(rig.Male)
	r.Get("r_arm").ApplyDelta(rig.AxisZ, deg)
	return posture.Capture(r)
}

func TestSaveGet(t *testing.T) {
	l := New()
	p := raised(45)

	if _, err := l.Save("Wave", "male", p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	e, err := l.Get("wave")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Name != "Wave" || e.Kind != "male" {
		t.Errorf("entry = %s/%s, want Wave/male", e.Name, e.Kind)
	}
	if d := posture.Diff(p, e.Posture, 0); len(d) != 0 {
		t.Errorf("posture changed: %v", d)
	}

	// Returned postures are copies
	e.Posture.Data[0][0] = 99
	again, _ := l.Get("WAVE")
	if again.Posture.Data[0][0] == 99 {
		t.Error("Get returned shared data")
	}
}

func TestSaveErrors(t *testing.T) {
	l := New()
	tests := []struct {
		name  string
		entry string
		p     posture.Posture
		want  error
	}{
		{"empty name", "  ", raised(0), ErrInvalidName},
		{"long name", string(make([]byte, MaxNameLength+1)), raised(0), ErrInvalidName},
		{"short posture", "x", posture.Posture{Version: posture.Version, Data: []posture.Entry{{0, 1, 2}}}, posture.ErrMalformedPosture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Save(tt.entry, "", tt.p); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	var vm *posture.VersionMismatchError
	if _, err := l.Save("future", "", posture.Posture{Version: 99}); !errors.As(err, &vm) {
		t.Errorf("err = %v, want VersionMismatchError", err)
	}
	if l.Len() != 0 {
		t.Errorf("len = %d after failed saves", l.Len())
	}
}

func TestDeleteAndList(t *testing.T) {
	l := New()
	for _, n := range []string{"b", "C", "a"} {
		if _, err := l.Save(n, "", raised(10)); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Delete("c"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := l.Delete("c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}

	list := l.List()
	if len(list) != 2 || list[0].Name != "a" || list[1].Name != "b" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Posture.Data != nil {
		t.Error("List includes posture data")
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib", "postures.json")

	l, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile on missing file: %v", err)
	}
	if _, err := l.Save("reach", "female", raised(80)); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	e, err := reopened.Get("reach")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if d := posture.Diff(raised(80), e.Posture, 0); len(d) != 0 {
		t.Errorf("posture changed on disk: %v", d)
	}

	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Error("expected error for corrupt library")
	}
}

type failingStore struct{}

func (failingStore) Load() ([]Entry, error)  { return nil, nil }
func (failingStore) Put(string, Entry) error { return errors.New("disk full") }
func (failingStore) Delete(string) error     { return errors.New("disk full") }
func (failingStore) Close() error            { return nil }

func TestSaveRollsBackOnStoreFailure(t *testing.T) {
	l, err := Open(failingStore{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Save("x", "", raised(0)); err == nil {
		t.Fatal("expected store error")
	}
	if _, err := l.Get("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("entry kept after failed save: %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postures.db")

	l, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	for _, n := range []string{"Wave", "bow"} {
		if _, err := l.Save(n, "child", raised(30)); err != nil {
			t.Fatalf("Save(%s): %v", n, err)
		}
	}
	if _, err := l.Save("wave", "male", raised(90)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := l.Delete("bow"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if reopened.Len() != 1 {
		t.Fatalf("len = %d, want 1", reopened.Len())
	}
	e, err := reopened.Get("WAVE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Name != "wave" || e.Kind != "male" {
		t.Errorf("entry = %s/%s, want wave/male", e.Name, e.Kind)
	}
	if d := posture.Diff(raised(90), e.Posture, 0); len(d) != 0 {
		t.Errorf("posture changed in the database: %v", d)
	}
}
