// Copyright (c) 2022 OpenOJ
// This code is licensed under the MIT license (see LICENSE.txt for details)

package main

import (
	"net/http"
	"strconv"

	"github.com/openoj/go/oj/db"
)

// userPostHandler create new user or rename existing one.
//
//	POST /users
//
// Json body: {name} to create with id = (last user id + 1), {id, name} to rename.
// Name collision with any other user is an invalid argument error,
// rename of a user which does not exist is a not found error.
// Self-rename to the same name is allowed.
func (sc *ServerCatalog) userPostHandler(w http.ResponseWriter, r *http.Request) {

	var u struct {
		UserId *int   `json:"id"`
		Name   string `json:"name"`
	}
	if !jsonRequestDecode(w, r, true, &u) {
		return // error at json decode, response done with http error
	}

	// collision check and insert must be atomic
	sc.theLock.Lock()
	defer sc.theLock.Unlock()

	other, isOther, err := db.SelectUserByName(sc.dbConn, u.Name)
	if err != nil {
		internalErrorResponse(w, "Error at user select", err)
		return
	}

	if u.UserId == nil { // create new user

		if isOther {
			invalidArgumentResponse(w, "User name '"+u.Name+"' already exists.")
			return
		}
		ur, err := db.InsertUser(sc.dbConn, u.Name)
		if err != nil {
			internalErrorResponse(w, "Error at user insert", err)
			return
		}
		jsonResponse(w, r, ur)
		return
	}

	// rename existing user, collision check excludes the user itself
	ur, isFound, err := db.SelectUser(sc.dbConn, *u.UserId)
	if err != nil {
		internalErrorResponse(w, "Error at user select", err)
		return
	}
	if !isFound {
		notFoundResponse(w, "User "+strconv.Itoa(*u.UserId)+" not found.")
		return
	}
	if isOther && other.UserId != ur.UserId {
		invalidArgumentResponse(w, "User name '"+u.Name+"' already exists.")
		return
	}

	if err := db.UpdateUserName(sc.dbConn, ur.UserId, u.Name); err != nil {
		internalErrorResponse(w, "Error at user update", err)
		return
	}
	ur.Name = u.Name
	jsonResponse(w, r, ur)
}

// userListHandler return all users in user id order, the root user included.
//
//	GET /users
func (sc *ServerCatalog) userListHandler(w http.ResponseWriter, r *http.Request) {

	uLst, err := db.SelectUserList(sc.dbConn)
	if err != nil {
		internalErrorResponse(w, "Error at user list select", err)
		return
	}
	jsonResponse(w, r, uLst)
}
