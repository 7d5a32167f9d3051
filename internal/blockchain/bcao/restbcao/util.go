package restbcao

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gitee.com/czyczk/learnledger/internal/blockchain/chaincodectx"
	"gitee.com/czyczk/learnledger/internal/utils/timingutils"
	"github.com/pkg/errors"
)

// relayError is the body the relay answers with on failure.
type relayError struct {
	Error string `json:"error"`
}

func sendForm(ctx context.Context, lctx *chaincodectx.RESTLedgerCtx, path string, form url.Values, timerMsg string) ([]byte, error) {
	defer timingutils.GetDeferrableTimingLogger(timerMsg)()

	formEncoded := form.Encode()
	req, err := http.NewRequestWithContext(ctx, "POST", lctx.APIPrefix+path, strings.NewReader(formEncoded))
	if err != nil {
		return nil, errors.Wrap(err, "无法构造账本请求")
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Content-Length", strconv.Itoa(len(formEncoded)))

	return do(lctx.HTTPClient, req)
}

func sendGet(ctx context.Context, lctx *chaincodectx.RESTLedgerCtx, path string, timerMsg string) ([]byte, error) {
	defer timingutils.GetDeferrableTimingLogger(timerMsg)()

	req, err := http.NewRequestWithContext(ctx, "GET", lctx.APIPrefix+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "无法构造账本请求")
	}

	return do(lctx.HTTPClient, req)
}

// do performs the request and turns the relay's status codes into classified errors.
// 200 -> body
// 404 -> not found
// 422 -> rejected by the ledger
// Other -> response body as error message
func do(client *http.Client, req *http.Request) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "无法读取账本响应")
	}

	if resp.StatusCode == http.StatusOK {
		return respBodyBytes, nil
	}

	msg := string(respBodyBytes)
	var relayErr relayError
	if err := json.Unmarshal(respBodyBytes, &relayErr); err == nil && relayErr.Error != "" {
		msg = relayErr.Error
	}

	return nil, &statusError{StatusCode: resp.StatusCode, Message: msg}
}

type statusError struct {
	StatusCode int
	Message    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("账本中继返回 %d: %v", e.StatusCode, e.Message)
}
