package errorcode

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type customKindError struct{}

func (customKindError) Error() string { return "custom" }
func (customKindError) Kind() Kind    { return KindPartialPublication }

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(errors.Wrap(ErrorNotFound, "无法获取资源")))
	assert.Equal(t, KindUnauthorized, KindOf(ErrorForbidden))
	assert.Equal(t, KindNetworkError, KindOf(errors.Wrapf(ErrorNetwork, "请求失败")))
	assert.Equal(t, KindTimeout, KindOf(errors.Wrap(context.DeadlineExceeded, "等待回执")))
	assert.Equal(t, KindPartialPublication, KindOf(errors.Wrap(customKindError{}, "发布")))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("something else")))
}

func TestKindOfPrefersTypedErrorOverSentinel(t *testing.T) {
	err := errors.Wrap(customKindError{}, ErrorNetwork.Error())
	assert.Equal(t, KindPartialPublication, KindOf(err))
}
