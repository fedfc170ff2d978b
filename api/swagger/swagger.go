package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Exam Workflow API",
        "description": "Exam paper, chapter, makeup and risk alert workflows for schools",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {"name": "Tests", "description": "Exam paper workflow"},
        {"name": "Chapters", "description": "Chapter lifecycle and portions"},
        {"name": "Makeup Tests", "description": "Makeup sittings"},
        {"name": "Risk Alerts", "description": "Risk alert monitor"},
        {"name": "Print Packs", "description": "Rendered papers and signed downloads"}
    ],
    "paths": {
        "/health": {"get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}},
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "Dependency unavailable"}}
            }
        },
        "/api/v1/tests": {
            "get": {
                "tags": ["Tests"],
                "summary": "List tests",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"},
                    {
                        "name": "state",
                        "in": "query",
                        "type": "string",
                        "description": "Comma separated workflow states"
                    },
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ]
            },
            "post": {
                "tags": ["Tests"],
                "summary": "Create draft test",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateTestRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}": {
            "get": {
                "tags": ["Tests"],
                "summary": "Get test",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]
            },
            "patch": {
                "tags": ["Tests"],
                "summary": "Update draft paper",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateTestRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/submit-review": {
            "post": {
                "tags": ["Tests"],
                "summary": "Submit for review",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/approve": {
            "post": {
                "tags": ["Tests"],
                "summary": "Approve paper",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/send-to-committee": {
            "post": {
                "tags": ["Tests"],
                "summary": "Send to committee",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/lock": {
            "post": {
                "tags": ["Tests"],
                "summary": "Lock paper",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/confidential": {
            "post": {
                "tags": ["Tests"],
                "summary": "Mark confidential",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/printing-ready": {
            "post": {
                "tags": ["Tests"],
                "summary": "Mark printing ready",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/complete": {
            "post": {
                "tags": ["Tests"],
                "summary": "Complete test",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/reveal": {
            "post": {
                "tags": ["Tests"],
                "summary": "Reveal results",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/tests/{id}/print-pack": {
            "post": {
                "tags": ["Print Packs"],
                "summary": "Generate print pack",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]
            }
        },
        "/api/v1/tests/{id}/makeup-tests": {
            "get": {
                "tags": ["Makeup Tests"],
                "summary": "List makeup sittings of a test",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]
            }
        },
        "/api/v1/print-packs/download": {
            "get": {
                "tags": ["Print Packs"],
                "summary": "Download print pack",
                "produces": ["application/pdf"],
                "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "PDF"}, "403": {"description": "Invalid or expired token"}}
            }
        },
        "/api/v1/chapters": {
            "get": {
                "tags": ["Chapters"],
                "summary": "List chapters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "subject", "in": "query", "type": "string"},
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ]
            },
            "post": {
                "tags": ["Chapters"],
                "summary": "Create chapter",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateChapterRequest"}
                    }
                ]
            }
        },
        "/api/v1/chapters/{id}": {
            "get": {
                "tags": ["Chapters"],
                "summary": "Get chapter",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]
            }
        },
        "/api/v1/chapters/{id}/unlock": {
            "post": {
                "tags": ["Chapters"],
                "summary": "Unlock chapter",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UnlockChapterRequest"}
                    }
                ]
            }
        },
        "/api/v1/chapters/{id}/lock": {
            "post": {
                "tags": ["Chapters"],
                "summary": "Lock chapter",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/chapters/{id}/complete": {
            "post": {
                "tags": ["Chapters"],
                "summary": "Complete chapter",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/chapters/{id}/deadline": {
            "post": {
                "tags": ["Chapters"],
                "summary": "Set chapter deadline",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/SetDeadlineRequest"}
                    }
                ]
            }
        },
        "/api/v1/chapters/{id}/reveal": {
            "post": {
                "tags": ["Chapters"],
                "summary": "Reveal chapter scores",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/chapters/{id}/portions": {
            "post": {
                "tags": ["Chapters"],
                "summary": "Update completed topics",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/UpdatePortionsRequest"}
                    }
                ]
            }
        },
        "/api/v1/makeup-tests": {
            "post": {
                "tags": ["Makeup Tests"],
                "summary": "Schedule makeup sitting",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ScheduleMakeupRequest"}
                    }
                ]
            }
        },
        "/api/v1/makeup-tests/{id}/start": {
            "post": {
                "tags": ["Makeup Tests"],
                "summary": "Start makeup sitting",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/makeup-tests/{id}/complete": {
            "post": {
                "tags": ["Makeup Tests"],
                "summary": "Complete makeup sitting",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/makeup-tests/{id}/cancel": {
            "post": {
                "tags": ["Makeup Tests"],
                "summary": "Cancel makeup sitting",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/TransitionRequest"}
                    }
                ]
            }
        },
        "/api/v1/risk-alerts": {
            "get": {
                "tags": ["Risk Alerts"],
                "summary": "List risk alerts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "severity", "in": "query", "type": "string"},
                    {"name": "entityId", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ]
            }
        },
        "/api/v1/risk-alerts/summary": {
            "get": {
                "tags": ["Risk Alerts"],
                "summary": "Summarise risk alerts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/risk-alerts/export": {
            "get": {
                "tags": ["Risk Alerts"],
                "summary": "Export risk alerts as CSV",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "CSV"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "severity", "in": "query", "type": "string"},
                    {"name": "entityId", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "produces": ["text/csv"]
            }
        },
        "/api/v1/risk-alerts/{id}/acknowledge": {
            "patch": {
                "tags": ["Risk Alerts"],
                "summary": "Acknowledge risk alert",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {
                        "name": "If-Match",
                        "in": "header",
                        "type": "string",
                        "description": "Expected version, used when the body carries none"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {"$ref": "#/definitions/AcknowledgeRiskAlertRequest"}
                    }
                ]
            }
        },
        "/api/v1/risk-alerts/evaluate": {
            "post": {
                "tags": ["Risk Alerts"],
                "summary": "Evaluate risk rules for the caller's tenant",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TransitionRequest": {"type": "object", "properties": {"version": {"type": "integer", "format": "int64"}}},
        "CreateTestRequest": {
            "type": "object",
            "properties": {
                "blueprintId": {"type": "string"},
                "title": {"type": "string"},
                "subject": {"type": "string"},
                "grade": {"type": "string"},
                "totalMarks": {"type": "integer"},
                "durationMinutes": {"type": "integer"},
                "examDate": {"type": "string", "format": "date-time"},
                "paperFormat": {"type": "string"}
            },
            "required": ["blueprintId", "title", "examDate"]
        },
        "UpdateTestRequest": {
            "type": "object",
            "properties": {
                "version": {"type": "integer", "format": "int64"},
                "title": {"type": "string"},
                "totalMarks": {"type": "integer"},
                "durationMinutes": {"type": "integer"},
                "examDate": {"type": "string", "format": "date-time"},
                "paperFormat": {"type": "string"}
            }
        },
        "CreateChapterRequest": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "grade": {"type": "string"},
                "position": {"type": "integer"},
                "title": {"type": "string"},
                "topics": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["subject", "grade", "title", "topics"]
        },
        "UnlockChapterRequest": {
            "type": "object",
            "properties": {
                "version": {"type": "integer", "format": "int64"},
                "deadline": {"type": "string", "format": "date-time"}
            }
        },
        "SetDeadlineRequest": {
            "type": "object",
            "properties": {
                "version": {"type": "integer", "format": "int64"},
                "deadline": {"type": "string", "format": "date-time"}
            },
            "required": ["deadline"]
        },
        "UpdatePortionsRequest": {
            "type": "object",
            "properties": {
                "version": {"type": "integer", "format": "int64"},
                "completedTopics": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ScheduleMakeupRequest": {
            "type": "object",
            "properties": {
                "testId": {"type": "string"},
                "studentId": {"type": "string"},
                "reason": {"type": "string"},
                "scheduledDate": {"type": "string", "format": "date-time"}
            },
            "required": ["testId", "studentId", "reason", "scheduledDate"]
        },
        "AcknowledgeRiskAlertRequest": {
            "type": "object",
            "properties": {"version": {"type": "integer", "format": "int64"}, "note": {"type": "string"}}
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
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
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
