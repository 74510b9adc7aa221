package detector

import "appdetect/pkg/framework"

// DjangoChecker matches a Django project by its manage.py
func DjangoChecker() Checker {
	return fileChecker{name: "django", marker: "manage.py", id: framework.Django}
}

// WSGIChecker matches a bare WSGI app exposing wsgi.py
func WSGIChecker() Checker {
	return fileChecker{name: "wsgi", marker: "wsgi.py", id: framework.WSGI}
}
