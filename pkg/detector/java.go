package detector

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"appdetect/pkg/archive"
	"appdetect/pkg/framework"
)

const webXML = "WEB-INF/web.xml"

var (
	grailsMarker = regexp.MustCompile(`WEB-INF/lib/grails-web.*\.jar`)
	liftMarker   = regexp.MustCompile(`WEB-INF/lib/lift-webkit.*\.jar`)
	springMarker = []*regexp.Regexp{
		regexp.MustCompile(`WEB-INF/classes/org/springframework`),
		regexp.MustCompile(`WEB-INF/lib/spring-core.*\.jar`),
		regexp.MustCompile(`WEB-INF/lib/org\.springframework\.core.*\.jar`),
	}
)

type javaChecker struct {
	lister  archive.Lister
	timeout time.Duration
}

// JavaChecker matches a directory holding exactly one .war archive or a
// WEB-INF/web.xml descriptor, then tells Grails, Lift and Spring apart from
// plain Java web apps by the libraries they ship.
func JavaChecker(lister archive.Lister, timeout time.Duration) Checker {
	return javaChecker{lister: lister, timeout: timeout}
}

func (javaChecker) Name() string { return "java" }

func (c javaChecker) Check(ctx context.Context, s *Snapshot) (Outcome, error) {
	var (
		warfile string
		hasXML  bool
		g       errgroup.Group
	)

	g.Go(func() error {
		entries, err := s.ReadDir(".")
		if err != nil {
			return probeErr(c.Name(), ".", err)
		}
		var wars []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".war") {
				wars = append(wars, e.Name())
			}
		}
		if len(wars) == 1 {
			warfile = wars[0]
		}
		return nil
	})
	g.Go(func() error {
		ok, err := s.Has(webXML)
		if err != nil {
			return probeErr(c.Name(), webXML, err)
		}
		hasXML = ok
		return nil
	})
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	if warfile == "" && !hasXML {
		return Outcome{}, nil
	}

	contents := s.Listing()
	if warfile != "" {
		listing, err := c.listWar(ctx, s.Path(warfile))
		if err != nil {
			return Outcome{}, probeErr(c.Name(), warfile, err)
		}
		contents = listing
	}

	return match(classifyJava(contents)), nil
}

func (c javaChecker) listWar(ctx context.Context, path string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.lister.ListEntries(ctx, path)
}

// classifyJava picks the most specific Java framework evident in an entry listing
func classifyJava(contents string) framework.ID {
	if grailsMarker.MatchString(contents) {
		return framework.Grails
	}
	if liftMarker.MatchString(contents) {
		return framework.Lift
	}
	for _, re := range springMarker {
		if re.MatchString(contents) {
			return framework.Spring
		}
	}
	return framework.JavaWeb
}
