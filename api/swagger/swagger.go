package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "School Information System API", "description": "Students, grades, attendance, subject catalog and timetable allocation.", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "paths": {
        "/auth/login": {
            "post": {"tags": ["Authentication"], "summary": "Authenticate user", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Pending approval", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}]}
        },
        "/auth/signup/teacher": {
            "post": {"tags": ["Authentication"], "summary": "Register a teacher account", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Username taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/TeacherSignupRequest"}}]}
        },
        "/auth/signup/parent": {
            "post": {"tags": ["Authentication"], "summary": "Register a parent account", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Student not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ParentSignupRequest"}}]}
        },
        "/auth/me": {
            "get": {"tags": ["Authentication"], "summary": "Current user claims", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/init": {
            "post": {"tags": ["Admin"], "summary": "Ensure the database schema", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Invalid init token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "500": {"description": "Init failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"in": "header", "name": "X-Admin-Init-Token", "type": "string"}, {"in": "query", "name": "token", "type": "string", "description": ""}]}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List users", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "role", "type": "string", "description": ""}, {"in": "query", "name": "approved", "type": "boolean", "description": ""}, {"in": "query", "name": "search", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Users"], "summary": "Create user", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}]}
        },
        "/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get user", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]},
            "put": {"tags": ["Users"], "summary": "Update user", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}, {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}]},
            "delete": {"tags": ["Users"], "summary": "Delete user", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}, "409": {"description": "Cannot delete yourself", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/users/{id}/approval": {
            "patch": {"tags": ["Users"], "summary": "Approve or revoke an account", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/students": {
            "get": {"tags": ["Students"], "summary": "List students", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "search", "type": "string", "description": ""}, {"in": "query", "name": "grade_level", "type": "string", "description": ""}, {"in": "query", "name": "section_id", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Students"], "summary": "Create student", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}]}
        },
        "/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get student", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]},
            "put": {"tags": ["Students"], "summary": "Update student", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}, {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}]},
            "delete": {"tags": ["Students"], "summary": "Delete student", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/students/{id}/subjects": {
            "get": {"tags": ["Enrollment"], "summary": "List a student's enrolled subjects", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Student ID"}]}
        },
        "/students/{id}/subjects/auto-enroll": {
            "post": {"tags": ["Enrollment"], "summary": "Enroll a student in every eligible subject", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Grade level unreadable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No eligible subjects", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Student ID"}]}
        },
        "/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "level_band", "type": "string", "description": ""}, {"in": "query", "name": "track", "type": "string", "description": ""}, {"in": "query", "name": "category", "type": "string", "description": ""}, {"in": "query", "name": "grade", "type": "integer", "description": ""}, {"in": "query", "name": "search", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Subjects"], "summary": "Create subject", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Invalid weights", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}]}
        },
        "/subjects/{id}": {
            "get": {"tags": ["Subjects"], "summary": "Get subject", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]},
            "put": {"tags": ["Subjects"], "summary": "Update subject", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}, {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}]},
            "delete": {"tags": ["Subjects"], "summary": "Delete subject", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/sections": {
            "get": {"tags": ["Sections"], "summary": "List sections", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "grade_level", "type": "string", "description": ""}, {"in": "query", "name": "track", "type": "string", "description": ""}, {"in": "query", "name": "search", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Sections"], "summary": "Create section", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/sections/{id}": {
            "get": {"tags": ["Sections"], "summary": "Get section", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Section ID"}]},
            "put": {"tags": ["Sections"], "summary": "Update section", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Section ID"}]},
            "delete": {"tags": ["Sections"], "summary": "Delete section and its timetable", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Section ID"}]}
        },
        "/sections/{id}/schedule/generate": {
            "post": {"tags": ["Schedules"], "summary": "Generate a section timetable", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Section not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Another run is in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No rooms or subjects", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Section ID"}, {"in": "query", "name": "include_saturday", "type": "boolean", "description": ""}]}
        },
        "/sections/{id}/schedule": {
            "get": {"tags": ["Schedules"], "summary": "Get a section timetable", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Section ID"}]},
            "delete": {"tags": ["Schedules"], "summary": "Clear a section timetable", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Section ID"}]}
        },
        "/sections/{id}/schedule/export": {
            "get": {"tags": ["Schedules"], "summary": "Download a section timetable", "produces": ["application/pdf", "text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Section ID"}, {"in": "query", "name": "format", "type": "string", "description": "pdf, xlsx or csv"}]}
        },
        "/schedules": {
            "get": {"tags": ["Schedules"], "summary": "List schedule entries", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "section_id", "type": "string", "description": ""}, {"in": "query", "name": "teacher_id", "type": "string", "description": ""}, {"in": "query", "name": "room_id", "type": "string", "description": ""}, {"in": "query", "name": "day_of_week", "type": "integer", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]}
        },
        "/schedules/{id}": {
            "delete": {"tags": ["Schedules"], "summary": "Delete a schedule entry", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/schedule-exports": {
            "post": {"tags": ["Schedule Exports"], "summary": "Queue a timetable export", "produces": ["application/json"], "responses": {"202": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ScheduleExportRequest"}}]}
        },
        "/schedule-exports/{id}": {
            "get": {"tags": ["Schedule Exports"], "summary": "Get export job status", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "Job ID"}]}
        },
        "/schedule-exports/download/{token}": {
            "get": {"tags": ["Schedule Exports"], "summary": "Download a finished export", "produces": ["application/octet-stream"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "parameters": [{"in": "path", "name": "token", "required": true, "type": "string", "description": "Signed token"}]}
        },
        "/rooms": {
            "get": {"tags": ["Rooms"], "summary": "List rooms", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Rooms"], "summary": "Create room", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/rooms/{id}": {
            "get": {"tags": ["Rooms"], "summary": "Get room", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]},
            "put": {"tags": ["Rooms"], "summary": "Update room", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]},
            "delete": {"tags": ["Rooms"], "summary": "Delete room", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}, "409": {"description": "Room is scheduled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/grades": {
            "get": {"tags": ["Grades"], "summary": "List grades", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "student_id", "type": "string", "description": ""}, {"in": "query", "name": "subject", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Grades"], "summary": "Record a grade", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/grades/{id}": {
            "put": {"tags": ["Grades"], "summary": "Update a grade", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]},
            "delete": {"tags": ["Grades"], "summary": "Delete a grade", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/attendance": {
            "get": {"tags": ["Attendance"], "summary": "List attendance marks", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "student_id", "type": "string", "description": ""}, {"in": "query", "name": "status", "type": "string", "description": ""}, {"in": "query", "name": "date_from", "type": "string", "description": ""}, {"in": "query", "name": "date_to", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Attendance"], "summary": "Mark attendance", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/attendance/{id}": {
            "put": {"tags": ["Attendance"], "summary": "Update an attendance mark", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]},
            "delete": {"tags": ["Attendance"], "summary": "Delete an attendance mark", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/behavior-reports": {
            "get": {"tags": ["Behavior"], "summary": "List behavior reports", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "student_id", "type": "string", "description": ""}, {"in": "query", "name": "severity", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Behavior"], "summary": "File a behavior report", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/behavior-reports/{id}": {
            "delete": {"tags": ["Behavior"], "summary": "Delete a behavior report", "produces": ["application/json"], "responses": {"204": {"description": "No Content"}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string", "description": "ID"}]}
        },
        "/communications": {
            "get": {"tags": ["Communications"], "summary": "List messages", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "student_id", "type": "string", "description": ""}, {"in": "query", "name": "page", "type": "integer", "description": ""}, {"in": "query", "name": "page_size", "type": "integer", "description": ""}]},
            "post": {"tags": ["Communications"], "summary": "Post a message", "produces": ["application/json"], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/dashboard/stats": {
            "get": {"tags": ["Dashboard"], "summary": "School-wide statistics", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/dashboard/adviser-insights": {
            "get": {"tags": ["Dashboard"], "summary": "Learners needing attention", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}, "required": ["username", "password"]},
        "TeacherSignupRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "full_name": {"type": "string"}, "teacher_band": {"type": "string", "enum": ["JHS", "SHS"]}}, "required": ["username", "password", "full_name"]},
        "ParentSignupRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "full_name": {"type": "string"}, "student_number": {"type": "string"}}, "required": ["username", "password", "full_name", "student_number"]},
        "CreateUserRequest": {"type": "object", "properties": {"username": {"type": "string"}, "full_name": {"type": "string"}, "role": {"type": "string", "enum": ["ADMIN", "TEACHER", "PARENT"]}, "password": {"type": "string"}, "approved": {"type": "boolean"}, "teacher_band": {"type": "string"}, "student_id": {"type": "string"}}, "required": ["username", "full_name", "role", "password"]},
        "UpdateUserRequest": {"type": "object", "properties": {"full_name": {"type": "string"}, "role": {"type": "string"}, "approved": {"type": "boolean"}, "teacher_band": {"type": "string"}, "student_id": {"type": "string"}, "password": {"type": "string"}}, "required": ["full_name", "role"]},
        "StudentRequest": {"type": "object", "properties": {"student_number": {"type": "string"}, "first_name": {"type": "string"}, "middle_name": {"type": "string"}, "last_name": {"type": "string"}, "date_of_birth": {"type": "string", "format": "date"}, "grade_level": {"type": "string"}, "homeroom_teacher": {"type": "string"}, "section_id": {"type": "string"}}, "required": ["student_number", "first_name", "last_name"]},
        "SubjectRequest": {"type": "object", "properties": {"name": {"type": "string"}, "category": {"type": "string", "enum": ["Core", "Applied", "Specialized", "Institutional"]}, "level_band": {"type": "string", "enum": ["JHS", "SHS"]}, "track": {"type": "string"}, "grade_min": {"type": "integer"}, "grade_max": {"type": "integer"}, "weight_ww": {"type": "number"}, "weight_pt": {"type": "number"}, "weight_qa": {"type": "number"}, "weekly_hours": {"type": "integer"}, "teacher_id": {"type": "string"}}, "required": ["name", "category", "level_band"]},
        "ScheduleExportRequest": {"type": "object", "properties": {"format": {"type": "string", "enum": ["pdf", "xlsx", "csv"]}, "section_ids": {"type": "array", "items": {"type": "string"}}}, "required": ["format", "section_ids"]},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}, "details": {"type": "object"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}}
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
