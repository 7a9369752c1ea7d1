package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries the authenticated caller for the lifetime of one request.
type RequestData struct {
	TokenString string
	TokenID     string
	UserID      uint
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(Default(ctx), requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// UserID returns the authenticated user id, or false when the request is anonymous.
func UserID(ctx context.Context) (uint, bool) {
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return 0, false
	}
	return rd.UserID, true
}
