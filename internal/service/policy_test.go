package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Policy)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Policy) {}},
		{name: "lowest popular score", mutate: func(p *Policy) { p.PopularScore = math.MinInt32 + 1 }},
		{name: "highest popular score", mutate: func(p *Policy) { p.PopularScore = math.MaxInt32 - 1 }},
		{name: "popular score at int32 max", mutate: func(p *Policy) { p.PopularScore = math.MaxInt32 }, wantErr: "popular score"},
		{name: "popular score at int32 min", mutate: func(p *Policy) { p.PopularScore = math.MinInt32 }, wantErr: "popular score"},
		{name: "negative chance", mutate: func(p *Policy) { p.PopularChance = -0.1 }, wantErr: "popular chance"},
		{name: "zero recent limit", mutate: func(p *Policy) { p.RecentLimit = 0 }, wantErr: "recent limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
