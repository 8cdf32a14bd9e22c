package health_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/jonwraymond/jsapisign/cache"
	"github.com/jonwraymond/jsapisign/health"
)

func ExampleNewCredentialChecker() {
	tickets := cache.NewCredentialCache("jsapi_ticket", cache.DefaultPolicy())
	checker := health.NewCredentialChecker(tickets)

	fmt.Println(checker.Check(context.Background()).Message)

	_, _ = tickets.Get(context.Background(), func(context.Context) (string, time.Duration, error) {
		return "TICKET", 2 * time.Hour, nil
	})
	result := checker.Check(context.Background())
	fmt.Println(result.Status, result.Message)
	// Output:
	// jsapi_ticket not fetched yet
	// healthy jsapi_ticket valid
}

func ExampleRegisterHandlers() {
	agg := health.NewAggregator()
	agg.Register("jsapi_ticket", health.NewCredentialChecker(
		cache.NewCredentialCache("jsapi_ticket", cache.DefaultPolicy()),
	))

	router := httprouter.New()
	health.RegisterHandlers(router, agg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	fmt.Println(rec.Code, rec.Body.String())
	// Output:
	// 200 DEGRADED
}
