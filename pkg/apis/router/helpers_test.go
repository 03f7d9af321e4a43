package router

import (
	"strconv"

	"github.com/sukryu/pSite/pkg/store/query"
	"github.com/sukryu/pSite/pkg/store/resources"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func resourcesPlan() query.Plan {
	return query.Build(resources.TechSpec, query.Request{Page: 1})
}
