package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHeadersTotal_CountsByStatus(t *testing.T) {
	before := testutil.ToFloat64(HeadersTotal.WithLabelValues("written"))
	HeadersTotal.WithLabelValues("written").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(HeadersTotal.WithLabelValues("written")))
}

func TestTracer_DefaultIsUsable(t *testing.T) {
	_, span := Tracer.Start(context.Background(), "test")
	defer span.End()
	assert.NotNil(t, span)
}
