package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	pkgtemplate "github.com/goliatone/go-certgen/pkg/template"
)

// Loader implements pkgtemplate.Loader by delegating to file, fs.FS, or HTTP
// strategies. Construction helpers live in the top-level certgen package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ pkgtemplate.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgtemplate.LoaderOptions) pkgtemplate.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches the template bytes from the provided source and validates that
// they decode. Fetch failures are wrapped in *pkgtemplate.DecodeError because a
// missing template is as fatal to the batch as a corrupt one.
func (l *Loader) Load(ctx context.Context, src pkgtemplate.Source) (pkgtemplate.Template, error) {
	if src == nil {
		return pkgtemplate.Template{}, errors.New("template loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkgtemplate.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case pkgtemplate.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case pkgtemplate.SourceKindURL:
		if !l.allowHTTP {
			return pkgtemplate.Template{}, errors.New("template loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("template loader: unsupported source kind")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return pkgtemplate.Template{}, err
		}
		return pkgtemplate.Template{}, &pkgtemplate.DecodeError{Location: src.Location(), Err: err}
	}

	return pkgtemplate.New(src, data)
}
