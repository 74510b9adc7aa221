package detector

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"appdetect/pkg/framework"
)

// fakeLister serves canned archive listings keyed by path
type fakeLister struct {
	listings map[string]string
	err      error
	calls    []string
}

func (f *fakeLister) ListEntries(_ context.Context, path string) (string, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return "", f.err
	}
	return f.listings[path], nil
}

// blockingLister never answers until its context is done
type blockingLister struct{}

func (blockingLister) ListEntries(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// deniedFS fails every access to the listed paths with a permission error
type deniedFS struct {
	fstest.MapFS
	denied map[string]bool
}

func (d deniedFS) Open(name string) (fs.File, error) {
	if d.denied[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return d.MapFS.Open(name)
}

func (d deniedFS) ReadFile(name string) ([]byte, error) {
	if d.denied[name] {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrPermission}
	}
	return d.MapFS.ReadFile(name)
}

func (d deniedFS) Stat(name string) (fs.FileInfo, error) {
	if d.denied[name] {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
	}
	return d.MapFS.Stat(name)
}

func mapSnapshot(t *testing.T, fsys fs.FS) *Snapshot {
	t.Helper()
	s, err := newSnapshot("", fsys)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	return s
}

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data), Mode: 0o644}
}

func TestFileCheckers(t *testing.T) {
	tests := []struct {
		name    string
		checker Checker
		files   fstest.MapFS
		want    framework.ID
	}{
		{"rails", RailsChecker(), fstest.MapFS{"config/environment.rb": file("")}, framework.Rails},
		{"rack", RackChecker(), fstest.MapFS{"config.ru": file("run App")}, framework.Rack},
		{"django", DjangoChecker(), fstest.MapFS{"manage.py": file("")}, framework.Django},
		{"wsgi", WSGIChecker(), fstest.MapFS{"wsgi.py": file("")}, framework.WSGI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.checker.Check(context.Background(), mapSnapshot(t, tt.files))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !out.Matched || out.Framework != tt.want {
				t.Fatalf("expected match %v, got %+v", tt.want, out)
			}

			out, err = tt.checker.Check(context.Background(), mapSnapshot(t, fstest.MapFS{"README.md": file("")}))
			if err != nil || out.Matched {
				t.Fatalf("expected abstention, got %+v, %v", out, err)
			}
		})
	}
}

func TestFileChecker_MarkerDirectoryIsNotAFile(t *testing.T) {
	fsys := fstest.MapFS{"config.ru/readme": file("")}

	out, err := RackChecker().Check(context.Background(), mapSnapshot(t, fsys))
	if err != nil || out.Matched {
		t.Fatalf("directory named config.ru must not match, got %+v, %v", out, err)
	}
}

func TestSinatraChecker(t *testing.T) {
	tests := []struct {
		name     string
		files    fstest.MapFS
		wantExec string
	}{
		{
			name:     "single quotes",
			files:    fstest.MapFS{"app.rb": file("require 'sinatra'\nget('/') { 'hi' }")},
			wantExec: "ruby app.rb",
		},
		{
			name:     "parenthesized double quotes after blank lines",
			files:    fstest.MapFS{"web/server.rb": file("\n\n  require(\"sinatra\")\n")},
			wantExec: "ruby web/server.rb",
		},
		{
			name: "first match in listing order",
			files: fstest.MapFS{
				"a.rb": file("puts 'no'"),
				"b.rb": file("require 'sinatra'"),
				"c.rb": file("require 'sinatra'"),
			},
			wantExec: "ruby b.rb",
		},
		{
			name:     "byte order mark",
			files:    fstest.MapFS{"app.rb": file("\uFEFFrequire 'sinatra'\n")},
			wantExec: "ruby app.rb",
		},
		{
			name:  "require not on first content line",
			files: fstest.MapFS{"app.rb": file("# frozen_string_literal: true\nrequire 'sinatra'")},
		},
		{
			name:  "not ruby",
			files: fstest.MapFS{"app.py": file("require 'sinatra'")},
		},
		{
			name:  "other gem",
			files: fstest.MapFS{"app.rb": file("require 'sinatra-contrib'")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := SinatraChecker().Check(context.Background(), mapSnapshot(t, tt.files))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantExec == "" {
				if out.Matched {
					t.Fatalf("expected no match, got %+v", out)
				}
				return
			}
			if !out.Matched || out.Framework != framework.Sinatra || out.Exec != tt.wantExec {
				t.Fatalf("expected sinatra with exec %q, got %+v", tt.wantExec, out)
			}
		})
	}
}

func TestSinatraChecker_UnreadableFileFails(t *testing.T) {
	fsys := deniedFS{
		MapFS:  fstest.MapFS{"app.rb": file("require 'sinatra'")},
		denied: map[string]bool{"app.rb": true},
	}

	_, err := SinatraChecker().Check(context.Background(), mapSnapshot(t, fsys))

	var pe *ProbeError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProbeError, got %v", err)
	}
	if pe.Path != "app.rb" || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("unexpected probe error: %+v", pe)
	}
}

func TestSinatraChecker_FailureAfterMatchIsIgnored(t *testing.T) {
	fsys := deniedFS{
		MapFS: fstest.MapFS{
			"a.rb": file("require 'sinatra'"),
			"z.rb": file("require 'sinatra'"),
		},
		denied: map[string]bool{"z.rb": true},
	}

	out, err := SinatraChecker().Check(context.Background(), mapSnapshot(t, fsys))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Exec != "ruby a.rb" {
		t.Fatalf("expected a.rb to win, got %+v", out)
	}
}

func TestNodeChecker_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		files    fstest.MapFS
		wantExec string
	}{
		{"server wins", fstest.MapFS{"app.js": file(""), "server.js": file("")}, "node server.js"},
		{"app before index", fstest.MapFS{"index.js": file(""), "app.js": file("")}, "node app.js"},
		{"main only", fstest.MapFS{"main.js": file("")}, "node main.js"},
		{"nested does not count", fstest.MapFS{"src/server.js": file("")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NodeChecker().Check(context.Background(), mapSnapshot(t, tt.files))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Exec != tt.wantExec || out.Matched != (tt.wantExec != "") {
				t.Fatalf("expected exec %q, got %+v", tt.wantExec, out)
			}
		})
	}
}

func TestPHPChecker(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  bool
	}{
		{"top level", fstest.MapFS{"index.php": file("")}, true},
		{"nested upper case", fstest.MapFS{"public/INDEX.PHP": file("")}, true},
		{"php in name only", fstest.MapFS{"php.ini": file("")}, false},
		{"none", fstest.MapFS{"index.html": file("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := PHPChecker().Check(context.Background(), mapSnapshot(t, tt.files))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Matched != tt.want {
				t.Fatalf("expected matched=%v, got %+v", tt.want, out)
			}
		})
	}
}

func TestJavaChecker_WarClassification(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    framework.ID
	}{
		{"grails", "WEB-INF/web.xml\nWEB-INF/lib/grails-web-2.1.0.jar", framework.Grails},
		{"lift", "WEB-INF/lib/lift-webkit_2.9.1-2.4.jar", framework.Lift},
		{"spring classes", "WEB-INF/classes/org/springframework/Foo.class", framework.Spring},
		{"spring core jar", "WEB-INF/lib/spring-core-3.1.jar", framework.Spring},
		{"spring osgi jar", "WEB-INF/lib/org.springframework.core-3.0.5.jar", framework.Spring},
		{"grails beats spring", "WEB-INF/lib/spring-core-3.1.jar\nWEB-INF/lib/grails-web-2.0.jar", framework.Grails},
		{"plain", "WEB-INF/web.xml\nindex.jsp", framework.JavaWeb},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{listings: map[string]string{"app.war": tt.listing}}
			fsys := fstest.MapFS{"app.war": file("PK")}

			out, err := JavaChecker(lister, 0).Check(context.Background(), mapSnapshot(t, fsys))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !out.Matched || out.Framework != tt.want {
				t.Fatalf("expected %v, got %+v", tt.want, out)
			}
			if len(lister.calls) != 1 {
				t.Fatalf("expected one archive listing, got %v", lister.calls)
			}
		})
	}
}

func TestJavaChecker_WebXMLUsesFileListing(t *testing.T) {
	lister := &fakeLister{}
	fsys := fstest.MapFS{
		"WEB-INF/web.xml":                 file("<web-app/>"),
		"WEB-INF/lib/spring-core-4.0.jar": file(""),
	}

	out, err := JavaChecker(lister, 0).Check(context.Background(), mapSnapshot(t, fsys))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Framework != framework.Spring {
		t.Fatalf("expected spring from file listing, got %+v", out)
	}
	if len(lister.calls) != 0 {
		t.Fatalf("no archive should be listed, got %v", lister.calls)
	}
}

func TestJavaChecker_WarCount(t *testing.T) {
	lister := &fakeLister{}

	twoWars := fstest.MapFS{"a.war": file(""), "b.war": file("")}
	out, err := JavaChecker(lister, 0).Check(context.Background(), mapSnapshot(t, twoWars))
	if err != nil || out.Matched {
		t.Fatalf("two wars without web.xml must abstain, got %+v, %v", out, err)
	}

	nested := fstest.MapFS{"target/app.war": file("")}
	out, err = JavaChecker(lister, 0).Check(context.Background(), mapSnapshot(t, nested))
	if err != nil || out.Matched {
		t.Fatalf("nested war must abstain, got %+v, %v", out, err)
	}

	if len(lister.calls) != 0 {
		t.Fatalf("unexpected archive listings: %v", lister.calls)
	}
}

func TestJavaChecker_ListingFailureFails(t *testing.T) {
	lister := &fakeLister{err: errors.New("zip: not a valid zip file")}
	fsys := fstest.MapFS{"app.war": file("garbage")}

	_, err := JavaChecker(lister, 0).Check(context.Background(), mapSnapshot(t, fsys))

	var pe *ProbeError
	if !errors.As(err, &pe) || pe.Checker != "java" || pe.Path != "app.war" {
		t.Fatalf("expected java ProbeError on app.war, got %v", err)
	}
}

func TestJavaChecker_ListingTimeoutFails(t *testing.T) {
	fsys := fstest.MapFS{"app.war": file("PK")}

	out, err := JavaChecker(blockingLister{}, 50*time.Millisecond).Check(context.Background(), mapSnapshot(t, fsys))

	var pe *ProbeError
	if !errors.As(err, &pe) || pe.Path != "app.war" {
		t.Fatalf("expected ProbeError on app.war, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if out.Matched {
		t.Fatalf("a timed out listing must not match, got %+v", out)
	}
}
