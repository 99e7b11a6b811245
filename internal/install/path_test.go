package install

import (
	"testing"
)

func TestLooksLikePath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{
			name:   "relative path with dot slash",
			source: "./file",
			want:   true,
		},
		{
			name:   "parent relative path",
			source: "../file",
			want:   true,
		},
		{
			name:   "deep parent path",
			source: "../../configs/file",
			want:   true,
		},
		{
			name:   "absolute path unix",
			source: "/path/to/file",
			want:   true,
		},
		{
			name:   "path with separator",
			source: "path/to/file",
			want:   true,
		},
		{
			name:   "simple name",
			source: "my-resource",
			want:   false,
		},
		{
			name:   "name with dash",
			source: "my-name",
			want:   false,
		},
		{
			name:   "name with underscore",
			source: "my_name",
			want:   false,
		},
		{
			name:   "name with dots but no slash",
			source: "resource.json",
			want:   false,
		},
		{
			name:   "empty string",
			source: "",
			want:   false,
		},
		{
			name:   "just a dot",
			source: ".",
			want:   false,
		},
		{
			name:   "single slash",
			source: "/",
			want:   true,
		},
		{
			name:   "current directory explicit",
			source: "./",
			want:   true,
		},
		{
			name:   "nested path no extension",
			source: "subdir/resource",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LooksLikePath(tt.source)
			if got != tt.want {
				t.Errorf("LooksLikePath(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}
