// Package xk6queue registers the k6/x/queue extension. Build k6 with
//
//	xk6 build --with github.com/huynhanx03/xk6-queue
package xk6queue

import (
	"go.k6.io/k6/js/modules"

	"github.com/huynhanx03/xk6-queue/pkg/k6ext"
)

func init() {
	modules.Register(k6ext.ImportPath, k6ext.New())
}
