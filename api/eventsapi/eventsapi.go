// Copyright (c) 2026 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventsapi serves filtered queries over the persisted event stream.
package eventsapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/emberfi/ember/api/utils"
	"github.com/emberfi/ember/ember"
	"github.com/emberfi/ember/eventdb"
)

type EventsAPI struct {
	db    *eventdb.EventDB
	limit uint64
}

// New creates the api over db; limit caps the page size of every query.
func New(db *eventdb.EventDB, limit uint64) *EventsAPI {
	return &EventsAPI{db, limit}
}

func (ea *EventsAPI) parseFilter(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{
		Name:    query.Get("name"),
		Options: &eventdb.Options{Limit: ea.limit},
	}

	if account := query.Get("account"); account != "" {
		addr, err := ember.ParseAddress(account)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		filter.Account = addr
	}
	if from := query.Get("from"); from != "" {
		tr := &eventdb.TimeRange{}
		fromTS, err := strconv.ParseUint(from, 10, 64)
		if err != nil {
			return nil, errors.WithMessage(err, "from")
		}
		tr.From = fromTS
		if to := query.Get("to"); to != "" {
			toTS, err := strconv.ParseUint(to, 10, 64)
			if err != nil {
				return nil, errors.WithMessage(err, "to")
			}
			tr.To = toTS
		}
		filter.Range = tr
	}
	if order := query.Get("order"); order == string(eventdb.DESC) {
		filter.Order = eventdb.DESC
	}
	if offset := query.Get("offset"); offset != "" {
		n, err := strconv.ParseUint(offset, 10, 64)
		if err != nil {
			return nil, errors.WithMessage(err, "offset")
		}
		filter.Options.Offset = n
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.ParseUint(limit, 10, 64)
		if err != nil {
			return nil, errors.WithMessage(err, "limit")
		}
		if n > ea.limit {
			return nil, errors.Errorf("limit exceeds maximum of %v", ea.limit)
		}
		filter.Options.Limit = n
	}
	return filter, nil
}

func (ea *EventsAPI) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := ea.parseFilter(req)
	if err != nil {
		return utils.BadRequest(err)
	}
	records, err := ea.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*eventdb.Record{}
	}
	return utils.WriteJSON(w, records)
}

func (ea *EventsAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(ea.handleFilter))
	sub.Path("/").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(ea.handleFilter))
}
