package retry

import (
	"bytes"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// TRY is the total number of attempts per request.
var TRY = 3

var retryCode = map[int]bool{
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

func shouldRetry(code int) bool {
	return retryCode[code]
}

// responseBuffer holds back the handler's response so that a failed
// attempt can be discarded and the request replayed.
type responseBuffer struct {
	header http.Header
	body   bytes.Buffer
	code   int
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}}
}

func (w *responseBuffer) Header() http.Header {
	return w.header
}

func (w *responseBuffer) WriteHeader(statusCode int) {
	if w.code == 0 {
		w.code = statusCode
	}
}

func (w *responseBuffer) Write(data []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.body.Write(data)
}

func (w *responseBuffer) reset() {
	w.header = http.Header{}
	w.body.Reset()
	w.code = 0
}

func (w *responseBuffer) flush(dst http.ResponseWriter) {
	for key, values := range w.header {
		for _, value := range values {
			dst.Header().Add(key, value)
		}
	}
	if w.code == 0 {
		w.code = http.StatusOK
	}
	dst.WriteHeader(w.code)
	io.Copy(dst, &w.body)
}

// Retry replays the request against next until the response is not a
// retryable 5xx or TRY attempts are used, then writes the last
// buffered response.
func Retry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Errorf("Read request body err=%v", err)
		}
		r.Body.Close()

		rb := newResponseBuffer()
		for try := 1; ; try++ {
			rb.reset()
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(rb, r)
			log.Debugf("[Retry] %dth try, response code %d", try, rb.code)
			if !shouldRetry(rb.code) || try >= TRY {
				break
			}
		}

		rb.flush(w)
	})
}
