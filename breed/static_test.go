package breed

import (
	"context"
	"reflect"
	"testing"
)

func TestStaticFetcher(t *testing.T) {
	table := map[string][]string{
		"Hound": {"afghan", "basset"},
		"pug":   nil,
	}
	s := NewStaticFetcher(table)

	// The table is copied at construction.
	table["Hound"][0] = "mutated"

	tests := []struct {
		name    string
		in      Name
		want    []string
		wantErr bool
	}{
		{name: "exact", in: NameOf("hound"), want: []string{"afghan", "basset"}},
		{name: "upper", in: NameOf("HOUND"), want: []string{"afghan", "basset"}},
		{name: "empty entry", in: NameOf("Pug"), want: []string{}},
		{name: "missing", in: NameOf("labrador"), wantErr: true},
		{name: "absent", in: NoName, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SubBreeds(context.Background(), tt.in)
			if tt.wantErr {
				name, ok := NotFoundName(err)
				if !ok {
					t.Fatalf("expected NotFoundError, got %v", err)
				}
				if name != tt.in {
					t.Errorf("error name = %v, want %v", name, tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if s.Breeds() != 2 {
		t.Errorf("Breeds() = %d, want 2", s.Breeds())
	}
}

func TestStaticFetcher_ReturnsCopies(t *testing.T) {
	s := NewStaticFetcher(map[string][]string{"hound": {"afghan"}})

	got, _ := s.SubBreeds(context.Background(), NameOf("hound"))
	got[0] = "mutated"

	again, _ := s.SubBreeds(context.Background(), NameOf("hound"))
	if again[0] != "afghan" {
		t.Errorf("table mutated through returned slice: %v", again)
	}
}
