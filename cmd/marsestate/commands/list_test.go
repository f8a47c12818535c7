package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jask/marsestate/internal/listing"
)

type stubSource struct {
	items []listing.Listing
	err   error
	seen  chan listing.Filter
}

func (s *stubSource) Fetch(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	if s.seen != nil {
		s.seen <- f
	}
	return s.items, s.err
}

func sample() []listing.Listing {
	return []listing.Listing{
		{ID: "424905", Price: 450000, Type: "rent", ImgSrc: "http://mars.jpl.nasa.gov/a.jpg"},
		{ID: "424906", Price: 8000000, Type: "buy", ImgSrc: "http://mars.jpl.nasa.gov/b.jpg"},
	}
}

func TestRunListJSON(t *testing.T) {
	t.Parallel()

	src := &stubSource{items: sample(), seen: make(chan listing.Filter, 1)}
	var out bytes.Buffer
	err := runList(context.Background(), &out, src, listOptions{Filter: listing.ShowRent, Format: "JSON"}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, listing.ShowRent, <-src.seen)

	var got []listing.Listing
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, sample(), got)
}

func TestRunListYAML(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runList(context.Background(), &out, &stubSource{items: sample()}, listOptions{Format: "yaml"}, zerolog.Nop())
	require.NoError(t, err)
	require.Contains(t, out.String(), "img_src: http://mars.jpl.nasa.gov/a.jpg")

	var got []listing.Listing
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	require.Equal(t, sample(), got)
}

func TestRunListTable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runList(context.Background(), &out, &stubSource{items: sample()}, listOptions{Format: "table", Currency: "$"}, zerolog.Nop())
	require.NoError(t, err)
	s := out.String()
	require.Contains(t, s, "424905")
	require.Contains(t, s, "For Rent")
	require.Contains(t, s, "$450,000/month")
	require.Contains(t, s, "$8,000,000")
}

func TestRunListEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runList(context.Background(), &out, &stubSource{}, listOptions{Format: "table"}, zerolog.Nop())
	require.NoError(t, err)
	require.Contains(t, out.String(), "No listings match this filter.")

	out.Reset()
	require.NoError(t, runList(context.Background(), &out, &stubSource{}, listOptions{Format: "json"}, zerolog.Nop()))
	require.JSONEq(t, "[]", out.String())
}

func TestRunListFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset by peer")
	var out bytes.Buffer
	err := runList(context.Background(), &out, &stubSource{err: cause}, listOptions{Format: "table"}, zerolog.Nop())
	require.ErrorIs(t, err, listing.ErrFetchFailed)
	require.ErrorIs(t, err, cause)
	require.Empty(t, out.String())
}

func TestRunListRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	err := runList(context.Background(), &bytes.Buffer{}, &stubSource{}, listOptions{Format: "xml"}, zerolog.Nop())
	require.ErrorContains(t, err, "xml")
}

func TestRunListHonoursContext(t *testing.T) {
	t.Parallel()

	block := sourceBlocking{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runList(ctx, &bytes.Buffer{}, block, listOptions{Format: "json"}, zerolog.Nop())
	require.ErrorIs(t, err, context.Canceled)
}

type sourceBlocking struct{}

func (sourceBlocking) Fetch(ctx context.Context, f listing.Filter) ([]listing.Listing, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
