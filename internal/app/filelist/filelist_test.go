package filelist_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/sbxmon/internal/apiclient/apiclientmock"
	"github.com/slok/sbxmon/internal/app/filelist"
	"github.com/slok/sbxmon/internal/model"
)

func TestService_Run(t *testing.T) {
	next := int64(200)
	listing := &model.FileListing{
		Entries: []model.FileEntry{
			{Name: "main.go", Kind: model.FileKindFile, Size: 1024},
			{Name: "internal", Kind: model.FileKindDir},
		},
		Total:      350,
		Offset:     0,
		Limit:      200,
		NextOffset: &next,
	}

	tests := map[string]struct {
		mock   func(m *apiclientmock.MockClient)
		req    filelist.Request
		expErr bool
	}{
		"empty path defaults to root": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ListFiles", mock.Anything, "/", int64(0), int64(200)).Once().Return(listing, nil)
			},
			req: filelist.Request{},
		},

		"pagination parameters are forwarded": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ListFiles", mock.Anything, "/workspace", int64(200), int64(50)).Once().Return(listing, nil)
			},
			req: filelist.Request{Path: "/workspace", Offset: 200, Limit: 50},
		},

		"missing directory surfaces not found": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ListFiles", mock.Anything, "/nope", int64(0), int64(200)).Once().Return(nil, model.ErrNotFound)
			},
			req:    filelist.Request{Path: "/nope"},
			expErr: true,
		},

		"client error should fail": {
			mock: func(m *apiclientmock.MockClient) {
				m.On("ListFiles", mock.Anything, "/", int64(0), int64(200)).Once().Return(nil, fmt.Errorf("boom"))
			},
			req:    filelist.Request{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mc := &apiclientmock.MockClient{}
			test.mock(mc)

			svc, err := filelist.NewService(filelist.ServiceConfig{Client: mc})
			require.NoError(err)

			result, err := svc.Run(context.Background(), test.req)

			if test.expErr {
				assert.Error(err)
			} else {
				require.NoError(err)
				assert.Equal(listing, result)
			}
			mc.AssertExpectations(t)
		})
	}
}
