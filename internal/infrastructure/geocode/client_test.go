package geocode

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/fastygo/progression/domain"
)

func startLookupServer(t *testing.T, handler fasthttp.RequestHandler) *Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() {
		_ = server.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = ln.Close()
	})

	client, err := NewClient(Config{
		BaseURL: "http://postcodes.test/",
		Timeout: time.Second,
		Dial: func(string) (net.Conn, error) {
			return ln.Dial()
		},
	})
	require.NoError(t, err)
	return client
}

func TestClient_Resolve(t *testing.T) {
	var gotPath string
	client := startLookupServer(t, func(ctx *fasthttp.RequestCtx) {
		gotPath = string(ctx.Path())
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"status":200,"result":{"postcode":"CV12 1CS","latitude":52.523,"longitude":-1.468}}`)
	})

	coords, err := client.Resolve(context.Background(), " cv12   1cs ")
	require.NoError(t, err)
	require.NotNil(t, coords)
	assert.Equal(t, 52.523, coords.Latitude)
	assert.Equal(t, -1.468, coords.Longitude)
	assert.Equal(t, "/postcodes/CV12 1CS", gotPath)
}

func TestClient_ResolveNotFound(t *testing.T) {
	client := startLookupServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString(`{"status":404,"error":"Postcode not found"}`)
	})

	_, err := client.Resolve(context.Background(), "ZZ9 9ZZ")
	assert.ErrorIs(t, err, domain.ErrPostcodeNotFound)
}

func TestClient_ResolveUpstreamError(t *testing.T) {
	client := startLookupServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
	})

	_, err := client.Resolve(context.Background(), "B1 1AA")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPostcodeNotFound)
}

func TestClient_ResolveMissingCoordinates(t *testing.T) {
	client := startLookupServer(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"status":200,"result":{"postcode":"BF1 1AA","latitude":null,"longitude":null}}`)
	})

	_, err := client.Resolve(context.Background(), "BF1 1AA")
	assert.ErrorIs(t, err, domain.ErrPostcodeNotFound)
}

func TestClient_ResolveBlank(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://postcodes.test"})
	require.NoError(t, err)

	coords, err := client.Resolve(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, coords)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "CV12 1CS", Normalize("cv12 1cs"))
	assert.Equal(t, "CV12 1CS", Normalize("  CV12\t 1CS "))
	assert.Equal(t, "", Normalize(" "))
}
