package signature

import (
	"testing"

	"github.com/sigil-dev/sigil/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string returns empty slice",
			input:    "",
			expected: []string{},
		},
		{
			name:     "single pattern",
			input:    "magic.*",
			expected: []string{"magic.*"},
		},
		{
			name:     "multiple patterns comma-separated",
			input:    "magic.*,archive.*,code.x86.call",
			expected: []string{"magic.*", "archive.*", "code.x86.call"},
		},
		{
			name:     "patterns with spaces are trimmed",
			input:    " magic.* , archive.* , code.x86.call ",
			expected: []string{"magic.*", "archive.*", "code.x86.call"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParsePatterns(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFilter_IncludeOnly(t *testing.T) {
	sigs := []*types.Signature{
		{ID: "magic.png", Name: "PNG image"},
		{ID: "magic.elf", Name: "ELF executable"},
		{ID: "archive.zip", Name: "ZIP archive"},
		{ID: "code.x86.call", Name: "x86 call"},
	}

	tests := []struct {
		name     string
		include  []string
		expected []string // expected signature IDs
	}{
		{
			name:     "include magic signatures only",
			include:  []string{"magic.*"},
			expected: []string{"magic.png", "magic.elf"},
		},
		{
			name:     "include multiple patterns",
			include:  []string{"magic.*", "archive.*"},
			expected: []string{"magic.png", "magic.elf", "archive.zip"},
		},
		{
			name:     "include exact match",
			include:  []string{"magic.png"},
			expected: []string{"magic.png"},
		},
		{
			name:     "include pattern matches none",
			include:  []string{"crypto.*"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := FilterConfig{
				Include: tt.include,
			}

			filtered, err := Filter(sigs, config)
			require.NoError(t, err)

			resultIDs := make([]string, 0)
			for _, s := range filtered {
				resultIDs = append(resultIDs, s.ID)
			}

			assert.Equal(t, tt.expected, resultIDs)
		})
	}
}

func TestFilter_ExcludeOnly(t *testing.T) {
	sigs := []*types.Signature{
		{ID: "magic.png", Name: "PNG image"},
		{ID: "magic.elf", Name: "ELF executable"},
		{ID: "archive.zip", Name: "ZIP archive"},
		{ID: "code.x86.call", Name: "x86 call"},
	}

	tests := []struct {
		name     string
		exclude  []string
		expected []string // expected signature IDs
	}{
		{
			name:     "exclude magic signatures",
			exclude:  []string{"magic.*"},
			expected: []string{"archive.zip", "code.x86.call"},
		},
		{
			name:     "exclude multiple patterns",
			exclude:  []string{"magic.*", "archive.*"},
			expected: []string{"code.x86.call"},
		},
		{
			name:     "exclude exact match",
			exclude:  []string{"magic.png"},
			expected: []string{"magic.elf", "archive.zip", "code.x86.call"},
		},
		{
			name:     "exclude pattern matches none",
			exclude:  []string{"crypto.*"},
			expected: []string{"magic.png", "magic.elf", "archive.zip", "code.x86.call"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := FilterConfig{
				Exclude: tt.exclude,
			}

			filtered, err := Filter(sigs, config)
			require.NoError(t, err)

			resultIDs := make([]string, 0)
			for _, s := range filtered {
				resultIDs = append(resultIDs, s.ID)
			}

			assert.Equal(t, tt.expected, resultIDs)
		})
	}
}

func TestFilter_IncludeAndExclude(t *testing.T) {
	sigs := []*types.Signature{
		{ID: "magic.png", Name: "PNG image"},
		{ID: "magic.pcap", Name: "pcap capture"},
		{ID: "magic.pcap.be", Name: "pcap capture, big-endian"},
		{ID: "archive.zip", Name: "ZIP archive"},
	}

	tests := []struct {
		name     string
		include  []string
		exclude  []string
		expected []string // expected signature IDs
	}{
		{
			name:     "include magics then exclude big-endian",
			include:  []string{"magic.*"},
			exclude:  []string{".*\\.be$"},
			expected: []string{"magic.png", "magic.pcap"},
		},
		{
			name:     "include all then exclude magics",
			include:  []string{".*"},
			exclude:  []string{"magic.*"},
			expected: []string{"archive.zip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := FilterConfig{
				Include: tt.include,
				Exclude: tt.exclude,
			}

			filtered, err := Filter(sigs, config)
			require.NoError(t, err)

			resultIDs := make([]string, 0)
			for _, s := range filtered {
				resultIDs = append(resultIDs, s.ID)
			}

			assert.Equal(t, tt.expected, resultIDs)
		})
	}
}

func TestFilter_EmptyPatterns(t *testing.T) {
	sigs := []*types.Signature{
		{ID: "magic.png", Name: "PNG image"},
		{ID: "archive.zip", Name: "ZIP archive"},
	}

	tests := []struct {
		name     string
		config   FilterConfig
		expected int // expected number of signatures
	}{
		{
			name:     "empty include and exclude returns all signatures",
			config:   FilterConfig{},
			expected: 2,
		},
		{
			name: "empty include slice returns all signatures",
			config: FilterConfig{
				Include: []string{},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := Filter(sigs, tt.config)
			require.NoError(t, err)
			assert.Len(t, filtered, tt.expected)
		})
	}
}

func TestFilter_InvalidRegex(t *testing.T) {
	sigs := []*types.Signature{
		{ID: "magic.png", Name: "PNG image"},
	}

	tests := []struct {
		name    string
		config  FilterConfig
		wantErr bool
	}{
		{
			name: "invalid include regex",
			config: FilterConfig{
				Include: []string{"[invalid"},
			},
			wantErr: true,
		},
		{
			name: "invalid exclude regex",
			config: FilterConfig{
				Exclude: []string{"[invalid"},
			},
			wantErr: true,
		},
		{
			name: "multiple patterns with one invalid",
			config: FilterConfig{
				Include: []string{"magic.*", "[invalid"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter(sigs, tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid regex pattern")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFilter_NilSignatures(t *testing.T) {
	config := FilterConfig{
		Include: []string{".*"},
	}

	filtered, err := Filter(nil, config)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}
