package remote_test

import (
	"errors"
	"testing"

	"github.com/dasdy/softkbd/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	cases := []struct {
		in   string
		want remote.Op
	}{
		{"show", remote.OpShow},
		{"HIDE", remote.OpHide},
		{" toggle ", remote.OpToggle},
		{"set-layout", remote.OpSetLayout},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := remote.ParseOp(tc.in)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := remote.ParseOp("explode")

		assert.ErrorIs(t, err, remote.ErrUnknownOp)
	})
}

func TestParseRequest(t *testing.T) {
	t.Run("set-layout takes an id", func(t *testing.T) {
		req, err := remote.ParseRequest([]string{"set-layout", "us"})

		require.NoError(t, err)
		assert.Equal(t, remote.Request{Op: remote.OpSetLayout, Layout: "us"}, req)
		assert.Equal(t, "set-layout us", req.String())
	})

	t.Run("plain ops", func(t *testing.T) {
		req, err := remote.ParseRequest([]string{"toggle"})

		require.NoError(t, err)
		assert.Equal(t, remote.OpToggle, req.Op)
		assert.Equal(t, "toggle", req.String())
	})

	t.Run("argument errors", func(t *testing.T) {
		for _, args := range [][]string{
			nil,
			{"set-layout"},
			{"set-layout", "a", "b"},
			{"show", "now"},
		} {
			_, err := remote.ParseRequest(args)
			assert.Error(t, err, "%v", args)
		}

		_, err := remote.ParseRequest([]string{})
		assert.ErrorIs(t, err, remote.ErrUnknownOp)
	})
}

func TestServerDispatch(t *testing.T) {
	t.Run("methods forward requests to the handler", func(t *testing.T) {
		got := make([]remote.Request, 0)
		s := remote.NewServer(func(r remote.Request) error {
			got = append(got, r)

			return nil
		})

		assert.Nil(t, s.Show())
		assert.Nil(t, s.Hide())
		assert.Nil(t, s.Toggle())
		assert.Nil(t, s.SetLayout("ru"))

		assert.Equal(t, []remote.Request{
			{Op: remote.OpShow},
			{Op: remote.OpHide},
			{Op: remote.OpToggle},
			{Op: remote.OpSetLayout, Layout: "ru"},
		}, got)
	})

	t.Run("handler errors become bus errors", func(t *testing.T) {
		s := remote.NewServer(func(remote.Request) error {
			return errors.New("loop closed")
		})

		dbusErr := s.Show()
		require.NotNil(t, dbusErr)
		assert.Equal(t, "org.softkbd.Keyboard.Error", dbusErr.Name)
		assert.Equal(t, []any{"loop closed"}, dbusErr.Body)
	})

	t.Run("closing an unstarted server is a no-op", func(t *testing.T) {
		s := remote.NewServer(nil)

		assert.Nil(t, s.Toggle())
		assert.NoError(t, s.Close())
	})
}
