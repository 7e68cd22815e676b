package fileread_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/sbxmon/internal/apiclient/apiclientmock"
	"github.com/slok/sbxmon/internal/app/fileread"
	"github.com/slok/sbxmon/internal/model"
)

func TestService_Run(t *testing.T) {
	tests := map[string]struct {
		mock    func(m *apiclientmock.MockClient)
		req     fileread.Request
		expMode model.PreviewMode
		expData string
		expErr  error
	}{
		"read a text file": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ReadFile", mock.Anything, "/workspace/main.go").Once().
					Return(io.NopCloser(strings.NewReader("package main\n")), "text/x-go", nil)
			},
			req:     fileread.Request{Path: "/workspace/main.go"},
			expMode: model.PreviewModeText,
			expData: "package main\n",
		},

		"read an image file": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ReadFile", mock.Anything, "/logo.png").Once().
					Return(io.NopCloser(strings.NewReader("\x89PNG")), "image/png", nil)
			},
			req:     fileread.Request{Path: "/logo.png"},
			expMode: model.PreviewModeImage,
			expData: "\x89PNG",
		},

		"missing path should fail with not valid": {
			mock:   func(m *apiclientmock.MockClient) {},
			req:    fileread.Request{},
			expErr: model.ErrNotValid,
		},

		"missing file surfaces not found": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ReadFile", mock.Anything, "/nope").Once().Return(nil, "", model.ErrNotFound)
			},
			req:    fileread.Request{Path: "/nope"},
			expErr: model.ErrNotFound,
		},

		"oversized file surfaces too large": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ReadFile", mock.Anything, "/huge.bin").Once().Return(nil, "", model.ErrTooLarge)
			},
			req:    fileread.Request{Path: "/huge.bin"},
			expErr: model.ErrTooLarge,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mc := &apiclientmock.MockClient{}
			test.mock(mc)

			svc, err := fileread.NewService(fileread.ServiceConfig{Client: mc})
			require.NoError(err)

			preview, err := svc.Run(context.Background(), test.req)

			if test.expErr != nil {
				require.ErrorIs(err, test.expErr)
			} else {
				require.NoError(err)
				require.NotNil(preview)
				assert.Equal(test.req.Path, preview.Path)
				assert.Equal(test.expMode, preview.Mode)
				assert.Equal(test.expData, string(preview.Data))
			}
			mc.AssertExpectations(t)
		})
	}
}

// A read superseded while streaming must end as ErrSuperseded with no
// preview returned, never as a partial result.
func TestService_RunSuperseded(t *testing.T) {
	require := require.New(t)

	started := make(chan struct{})

	mc := &apiclientmock.MockClient{}
	mc.On("ReadFile", mock.Anything, "/slow.txt").Once().
		Run(func(args mock.Arguments) {
			close(started)
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, "", context.Canceled)

	svc, err := fileread.NewService(fileread.ServiceConfig{Client: mc})
	require.NoError(err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background(), fileread.Request{Path: "/slow.txt"})
		done <- err
	}()

	<-started
	svc.Supersede()

	require.ErrorIs(<-done, model.ErrSuperseded)
}
