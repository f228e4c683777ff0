// SPDX-License-Identifier: MIT
package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/syntenyqc/telemetry"
)

func TestProvider_WritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := telemetry.Provider(&buf, "test")
	require.NoError(t, err)

	_, span := tp.Tracer(telemetry.ServiceName).Start(context.Background(), "sieve.prune")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name": "sieve.prune"`)
	assert.Contains(t, buf.String(), telemetry.ServiceName)
}

func TestTracer_NoopWithoutInit(t *testing.T) {
	_, span := telemetry.Tracer().Start(context.Background(), "x")
	defer span.End()
	assert.NotNil(t, span)
}
