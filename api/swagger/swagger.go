package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "MuseLink API",
        "description": "Music lesson marketplace: accounts, teacher profiles, availability, enrollment, lessons, payments and admin reporting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Signup, login and sessions"},
        {"name": "Teachers", "description": "Teacher profiles and directory"},
        {"name": "Availability", "description": "Weekly teaching schedules"},
        {"name": "Enrollments", "description": "Recurring capacity-checked enrollments"},
        {"name": "Lessons", "description": "Dated lesson bookings"},
        {"name": "Payments", "description": "Simulated payments and earnings"},
        {"name": "Admin Reports", "description": "Aggregates, demo dashboard and exports"}
    ],
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Duplicate email"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate and obtain a session token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials or password reset required"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke the current session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Reset a password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResetPasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Account not found"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account claims",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List the teacher directory",
                "parameters": [
                    {"name": "instrument", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/profile": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Create a teacher profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherProfileRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/profile/update": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Update a teacher profile",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TeacherProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Profile not found"}
                }
            }
        },
        "/teachers/profile/get": {
            "post": {
                "tags": ["Teachers"],
                "summary": "Fetch a teacher profile by email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmailLookupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Profile not found"}
                }
            }
        },
        "/availability/set": {
            "post": {
                "tags": ["Availability"],
                "summary": "Replace a weekly schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/add": {
            "post": {
                "tags": ["Availability"],
                "summary": "Add or refresh one availability slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability/get": {
            "post": {
                "tags": ["Availability"],
                "summary": "Fetch a weekly schedule, Monday first",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmailLookupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student with a teacher for a weekday",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Capacity exceeded"}
                }
            }
        },
        "/enrollments/list": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "List a student's enrollments",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentLookupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/book": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Book a dated lesson slot",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookLessonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Slot conflict"}
                }
            }
        },
        "/lessons/list": {
            "post": {
                "tags": ["Lessons"],
                "summary": "List lessons for a teacher or student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ListLessonsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lessons/status": {
            "post": {
                "tags": ["Lessons"],
                "summary": "Complete or cancel a lesson",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLessonStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments": {
            "post": {
                "tags": ["Payments"],
                "summary": "Record a payment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProcessPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/payments/history": {
            "post": {
                "tags": ["Payments"],
                "summary": "List a student's payments",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentLookupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments/earnings": {
            "post": {
                "tags": ["Payments"],
                "summary": "Summarise a teacher's earnings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EmailLookupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/reports/revenue-by-instrument": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Revenue per instrument",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reports/revenue-by-student": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Revenue per student",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reports/popular-instruments": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Enrollment counts per instrument",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reports/repeat-customers": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Repeat-student ratio",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reports/overview": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Platform-wide snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reports/dashboard": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Demo dashboard series",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reports/export": {
            "post": {
                "tags": ["Admin Reports"],
                "summary": "Queue a CSV or PDF export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {"202": {"description": "Accepted"}}
            }
        },
        "/admin/reports/export/{id}": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Poll a queued export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/reports/export/download": {
            "get": {
                "tags": ["Admin Reports"],
                "summary": "Download a finished export",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
        "SignupRequest": {
            "type": "object",
            "required": ["firstName", "lastName", "email", "password", "accountType"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "accountType": {"type": "string", "enum": ["student", "teacher"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ResetPasswordRequest": {
            "type": "object",
            "required": ["email", "newPassword"],
            "properties": {
                "email": {"type": "string"},
                "newPassword": {"type": "string", "minLength": 6}
            }
        },
        "TeacherProfileRequest": {
            "type": "object",
            "required": ["name", "email", "instrument", "bio"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "instrument": {"type": "string"},
                "bio": {"type": "string"},
                "contactInfo": {"type": "string"},
                "classLimit": {"type": "integer"},
                "ratePerSession": {"type": "number"}
            }
        },
        "EmailLookupRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "StudentLookupRequest": {
            "type": "object",
            "required": ["studentEmail"],
            "properties": {
                "studentEmail": {"type": "string"}
            }
        },
        "SetAvailabilityRequest": {
            "type": "object",
            "required": ["email", "availability"],
            "properties": {
                "email": {"type": "string"},
                "availability": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "dayOfWeek": {"type": "string"},
                            "startTime": {"type": "string"},
                            "endTime": {"type": "string"},
                            "isAvailable": {"type": "boolean"}
                        }
                    }
                }
            }
        },
        "AddAvailabilityRequest": {
            "type": "object",
            "required": ["email", "day", "startTime", "endTime"],
            "properties": {
                "email": {"type": "string"},
                "day": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "required": ["studentEmail", "teacherEmail", "day"],
            "properties": {
                "studentEmail": {"type": "string"},
                "teacherEmail": {"type": "string"},
                "day": {"type": "string"}
            }
        },
        "BookLessonRequest": {
            "type": "object",
            "required": ["teacherEmail", "studentEmail", "lessonDate", "lessonTime"],
            "properties": {
                "teacherEmail": {"type": "string"},
                "studentEmail": {"type": "string"},
                "lessonDate": {"type": "string", "format": "date"},
                "lessonTime": {"type": "string"},
                "instrument": {"type": "string"},
                "lessonType": {"type": "string", "enum": ["InPerson", "Virtual"]}
            }
        },
        "ListLessonsRequest": {
            "type": "object",
            "properties": {
                "teacherEmail": {"type": "string"},
                "studentEmail": {"type": "string"}
            }
        },
        "UpdateLessonStatusRequest": {
            "type": "object",
            "required": ["lessonId", "status"],
            "properties": {
                "lessonId": {"type": "string"},
                "status": {"type": "string", "enum": ["completed", "cancelled"]}
            }
        },
        "ProcessPaymentRequest": {
            "type": "object",
            "required": ["studentEmail", "teacherEmail", "amount", "method"],
            "properties": {
                "studentEmail": {"type": "string"},
                "teacherEmail": {"type": "string"},
                "amount": {"type": "number"},
                "method": {"type": "string"}
            }
        },
        "CreateExportRequest": {
            "type": "object",
            "required": ["type", "format"],
            "properties": {
                "type": {"type": "string", "enum": ["revenue-by-instrument", "revenue-by-student", "popular-instruments", "overview"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
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
