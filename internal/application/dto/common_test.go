package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-inventory/internal/application/dto"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		name       string
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"sin limit", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"limit negativo", dto.PageRequest{Limit: -1, Offset: 10}, dto.DefaultPageLimit, 10},
		{"dentro del rango", dto.PageRequest{Limit: 25, Offset: 50}, 25, 50},
		{"en el máximo", dto.PageRequest{Limit: dto.MaxPageLimit}, dto.MaxPageLimit, 0},
		{"sobre el máximo", dto.PageRequest{Limit: 1000}, dto.MaxPageLimit, 0},
		{"offset negativo", dto.PageRequest{Limit: 5, Offset: -7}, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}
