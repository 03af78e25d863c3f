// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gravatar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/campusdir/pkg/gravatar"
)

func TestHash_Normalizes(t *testing.T) {
	// Reference value from the gravatar documentation.
	const want = "0bc83cb571cd1c50ba6f3e8a78ef1346"

	assert.Equal(t, want, gravatar.Hash("MyEmailAddress@example.com "))
	assert.Equal(t, want, gravatar.Hash("  myemailaddress@example.com"))
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		opts gravatar.Options
		want string
	}{
		{
			name: "bare",
			want: gravatar.BaseURL + "0bc83cb571cd1c50ba6f3e8a78ef1346",
		},
		{
			name: "all_options",
			opts: gravatar.Options{Size: 200, Rating: "pg", Default: "mm"},
			want: gravatar.BaseURL + "0bc83cb571cd1c50ba6f3e8a78ef1346?d=mm&r=pg&s=200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gravatar.URL("myemailaddress@example.com", tt.opts))
		})
	}
}
