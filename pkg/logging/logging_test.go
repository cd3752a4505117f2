package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestQuietUnlessFile(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	QuietUnlessFile("/var/log/mrcool.log")
	log.Info().Msg("kept")
	require.Contains(t, buf.String(), "kept")

	buf.Reset()
	QuietUnlessFile("  ")
	log.Info().Msg("dropped")
	require.Empty(t, buf.String())
}
