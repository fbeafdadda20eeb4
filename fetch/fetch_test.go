// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justhtml/html5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>hello</p>"))
	}))
	defer srv.Close()

	c := NewClient()
	body, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", string(body))
}

func TestClientGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient()
	c.rc.RetryMax = 0
	_, err := c.Get(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestClientParseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>hi</p></body></html>"))
	}))
	defer srv.Close()

	c := NewClient()
	doc, err := c.ParseURL(context.Background(), srv.URL, html.Options{})
	require.NoError(t, err)
	require.NotNil(t, doc)
}
