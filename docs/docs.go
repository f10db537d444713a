// Package docs registers the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/matches": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Create a match",
                "parameters": [{"name": "match", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.CreateMatchRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid payload"}, "409": {"description": "Teams not registered in the tournament"}, "422": {"description": "Invalid match setup"}}
            }
        },
        "/matches/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Get a match",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Match not found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Edit a scheduled match",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "match", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.UpdateMatchRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Caller did not create the match"}, "409": {"description": "Match already started"}, "422": {"description": "Invalid match setup"}}
            }
        },
        "/matches/{id}/scorer": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Assign the scorer",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "scorer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.AssignScorerRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Caller did not create the match"}, "409": {"description": "Match already started"}}
            }
        },
        "/matches/{id}/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Start a match",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Caller is not the scorer"}, "409": {"description": "Match is not scheduled"}}
            }
        },
        "/matches/{id}/toss": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Record the toss",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "toss", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.TossRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{id}/overs": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "Open an over",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "over", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.OpenOverRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Over out of sequence"}}
            }
        },
        "/matches/{id}/balls": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "Record a ball",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "ball", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.RecordBallRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "409": {"description": "No open over"}, "422": {"description": "Inconsistent delivery"}, "503": {"description": "Match busy, retry"}}
            }
        },
        "/matches/{id}/overs/close": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "Close the open over",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Caller is not the scorer"}, "409": {"description": "Match has no overs"}, "503": {"description": "Match busy, retry"}}
            }
        },
        "/matches/{id}/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Complete or abandon a match",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "result", "in": "body", "schema": {"$ref": "#/definitions/match.CompleteMatchRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{id}/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Scoring"],
                "summary": "Live match state",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{id}/result": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Matches"],
                "summary": "Match result",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Match or result not found"}}
            }
        },
        "/tournaments/{id}/points-table/recalculate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Tournaments"],
                "summary": "Rebuild the points table",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Tournament not found"}, "503": {"description": "Tournament busy, retry"}}
            }
        },
        "/tournaments/{id}/points-table": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Tournaments"],
                "summary": "Tournament points table",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/matches/{id}/squads/{team_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Teams"],
                "summary": "List a match squad",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "team_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Teams"],
                "summary": "Name a match squad",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "name": "team_id", "in": "path", "required": true},
                    {"name": "squad", "in": "body", "required": true, "schema": {"$ref": "#/definitions/team.SetSquadRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Caller does not manage the team"}, "404": {"description": "Match not found"}, "409": {"description": "Match already started"}, "422": {"description": "Team not in the match or player not a member"}}
            }
        },
        "/matches/{id}/scorer-invitation": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Scorer Invitations"],
                "summary": "Invite a scorer",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "invitation", "in": "body", "required": true, "schema": {"$ref": "#/definitions/team.InviteScorerRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Caller did not create the match"}, "404": {"description": "Match not found"}, "409": {"description": "Match started or invitation already accepted"}}
            }
        },
        "/matches/{id}/scorer-invitation/{action}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Scorer Invitations"],
                "summary": "Respond to a scorer invitation",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "enum": ["accept", "reject"], "name": "action", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Invitation not found"}, "409": {"description": "Invitation is not pending"}}
            }
        },
        "/teams": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Teams"],
                "summary": "Create a new team",
                "parameters": [{"name": "team", "in": "body", "required": true, "schema": {"$ref": "#/definitions/team.CreateTeamRequest"}}],
                "responses": {"201": {"description": "Team created successfully"}, "400": {"description": "Invalid input"}}
            }
        },
        "/teams/{team_id}/members": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Teams"],
                "summary": "Add a team member",
                "parameters": [
                    {"type": "integer", "name": "team_id", "in": "path", "required": true},
                    {"name": "member", "in": "body", "required": true, "schema": {"$ref": "#/definitions/team.AddMemberRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Caller does not manage the team"}}
            }
        }
    },
    "definitions": {
        "match.CreateMatchRequest": {
            "type": "object",
            "required": ["team1_id", "team2_id", "overs", "scheduled_at"],
            "properties": {
                "tournament_id": {"type": "integer"},
                "team1_id": {"type": "integer"},
                "team2_id": {"type": "integer"},
                "overs": {"type": "integer", "minimum": 1},
                "ball_type": {"type": "string", "enum": ["leather", "tennis", "rubber"]},
                "format": {"type": "string", "enum": ["t10", "t20", "odi", "custom"]},
                "custom_overs": {"type": "integer", "minimum": 1},
                "scheduled_at": {"type": "string", "format": "date-time"},
                "scorer_id": {"type": "integer"}
            }
        },
        "match.TossRequest": {
            "type": "object",
            "required": ["winner_team_id", "decision"],
            "properties": {
                "winner_team_id": {"type": "integer"},
                "decision": {"type": "string", "enum": ["bat", "field"]}
            }
        },
        "match.OpenOverRequest": {
            "type": "object",
            "required": ["inning_number", "over_number", "bowler_id"],
            "properties": {
                "inning_number": {"type": "integer", "enum": [1, 2]},
                "over_number": {"type": "integer", "minimum": 1},
                "bowler_id": {"type": "integer"},
                "striker_id": {"type": "integer"},
                "non_striker_id": {"type": "integer"}
            }
        },
        "match.RecordBallRequest": {
            "type": "object",
            "properties": {
                "runs_off_bat": {"type": "integer", "minimum": 0, "maximum": 6},
                "is_wide": {"type": "boolean"},
                "wide_extra": {"type": "integer", "minimum": 0},
                "is_no_ball": {"type": "boolean"},
                "no_ball_extra": {"type": "integer", "minimum": 0},
                "is_bye": {"type": "boolean"},
                "bye_extra": {"type": "integer", "minimum": 0},
                "is_leg_bye": {"type": "boolean"},
                "leg_bye_extra": {"type": "integer", "minimum": 0},
                "wicket_type": {"type": "string", "enum": ["none", "bowled", "caught", "lbw", "run_out", "stumped", "hit_wicket", "handled_ball", "obstructing_field"]},
                "dismissed_batsman_id": {"type": "integer"},
                "fielder_id": {"type": "integer"},
                "new_batsman_id": {"type": "integer"}
            }
        },
        "match.UpdateMatchRequest": {
            "type": "object",
            "properties": {
                "overs": {"type": "integer", "minimum": 1},
                "ball_type": {"type": "string", "enum": ["leather", "tennis", "rubber"]},
                "format": {"type": "string", "enum": ["t10", "t20", "odi", "custom"]},
                "custom_overs": {"type": "integer", "minimum": 1},
                "scheduled_at": {"type": "string", "format": "date-time"}
            }
        },
        "match.AssignScorerRequest": {
            "type": "object",
            "required": ["scorer_id"],
            "properties": {"scorer_id": {"type": "integer"}}
        },
        "match.CompleteMatchRequest": {
            "type": "object",
            "properties": {"abandoned": {"type": "boolean"}}
        },
        "team.CreateTeamRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "minLength": 3, "maxLength": 100},
                "description": {"type": "string", "maxLength": 1000}
            }
        },
        "team.AddMemberRequest": {
            "type": "object",
            "required": ["user_id"],
            "properties": {
                "user_id": {"type": "integer"},
                "role": {"type": "string", "enum": ["player", "vice_captain", "captain"]},
                "jersey_number": {"type": "integer", "minimum": 0}
            }
        },
        "team.SetSquadRequest": {
            "type": "object",
            "required": ["player_ids"],
            "properties": {
                "player_ids": {"type": "array", "minItems": 2, "maxItems": 11, "uniqueItems": true, "items": {"type": "integer"}}
            }
        },
        "team.InviteScorerRequest": {
            "type": "object",
            "required": ["scorer_id"],
            "properties": {"scorer_id": {"type": "integer"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8088",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Crease Live Scoring API",
	Description:      "Ball-by-ball cricket scoring, results and tournament standings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
