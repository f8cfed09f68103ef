package schema

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/soqlgen/soqlgen/types"
)

type DescriberMock struct {
	mock.Mock
}

func (o *DescriberMock) DescribeGlobal(ctx context.Context) (*types.DescribeGlobalResponse, error) {
	args := o.Called(ctx)
	return args.Get(0).(*types.DescribeGlobalResponse), args.Error(1)
}

func (o *DescriberMock) DescribeObject(ctx context.Context, name string) (*types.DescribeObjectResponse, error) {
	args := o.Called(ctx, name)
	return args.Get(0).(*types.DescribeObjectResponse), args.Error(1)
}
