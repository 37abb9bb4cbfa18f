package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("User with id %d not found", 1), http.StatusNotFound},
		{PermissionDenied("not yours"), http.StatusForbidden},
		{Business("invalid transition"), http.StatusBadRequest},
		{Validation("bad date"), http.StatusUnprocessableEntity},
		{Authentication("bad token"), http.StatusUnauthorized},
		{errors.New("db gone"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v): 期望 %d，实际 %d", c.err, c.want, got)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("complete request: %w", Business("already completed"))
	if !IsKind(err, KindBusiness) {
		t.Errorf("包装后的错误分类应保留，实际 Kind=%v", KindOf(err))
	}
	if IsKind(err, KindNotFound) {
		t.Error("不应命中其他分类")
	}
}

func TestErrorMessageFormatting(t *testing.T) {
	err := NotFound("Asset with id %d not found", 42)
	if err.Error() != "Asset with id 42 not found" {
		t.Errorf("错误信息格式化不正确: %s", err.Error())
	}
}
