package syntax

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((escape_sequence) @string)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((identifier) @type (#match? @type "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @builtin (#match? @builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
((const_spec name: (identifier) @constant))
((type_spec name: (type_identifier) @type))
((type_identifier) @type)
((package_identifier) @type)
((type_parameter_declaration (identifier) @type))
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((method_elem (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
((selector_expression field: (field_identifier) @field))
((field_identifier) @field)
((parameter_declaration (identifier) @parameter))
((variadic_parameter_declaration (identifier) @parameter))
((label_name) @keyword)
((blank_identifier) @variable)
((identifier) @variable)
[
  "+" "-" "*" "/" "%" "==" "!=" "<=" ">=" "<" ">" "=" ":=" "&&" "||"
  "!" "&" "|" "^" "<<" ">>" "&^" "+=" "-=" "*=" "/=" "%=" "&=" "|="
  "^=" "<<=" ">>=" "&^=" "<-" "++" "--" "..."
] @operator
[
  "." "," ";" ":" "(" ")" "[" "]" "{" "}"
] @punctuation
`

const yamlHighlightQuery = `
((comment) @comment)
((string_scalar) @string)
((double_quote_scalar) @string)
((single_quote_scalar) @string)
((integer_scalar) @number)
((float_scalar) @number)
((null_scalar) @constant)
((boolean_scalar) @constant)
((block_mapping_pair key: (_) @field))
((flow_pair key: (_) @field))
((anchor_name) @keyword)
((alias_name) @keyword)
((tag) @type)
["," ":" "-" "[" "]" "{" "}" ">" "|" "*" "&"] @punctuation
`

const tomlHighlightQuery = `
((comment) @comment)
((string) @string)
((integer) @number)
((float) @number)
((boolean) @constant)
((local_date) @string)
((local_time) @string)
((local_date_time) @string)
((offset_date_time) @string)
((bare_key) @field)
((quoted_key) @field)
((table (bare_key) @type))
((table (quoted_key) @type))
((table (dotted_key) @type))
((table_array_element (bare_key) @type))
((table_array_element (quoted_key) @type))
((table_array_element (dotted_key) @type))
["=" "." "," "[" "]" "[[" "]]" "{" "}"] @punctuation
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @number)
((variable_name) @variable)
((special_variable_name) @variable)
((command_name) @function)
((function_definition name: (word) @function))
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "select" "return" "exit" "break" "continue"
  "local" "export" "readonly" "declare" "typeset" "unset"
] @keyword
["$" "${" "}" "(" ")" "((" "))" "[" "]" "[[" "]]" "{" "}" ";" ";;" "&&" "||" "|" "&" "<" ">" ">>" "<<" "<<<"] @operator
`

const pythonHighlightQuery = `
((comment) @comment)
((string) @string)
((escape_sequence) @string)
((integer) @number)
((float) @number)
((none) @constant)
((true) @constant)
((false) @constant)
((identifier) @builtin (#match? @builtin "^(abs|all|any|bool|dict|enumerate|filter|float|getattr|hasattr|int|isinstance|len|list|map|max|min|open|print|range|repr|set|setattr|sorted|str|sum|super|tuple|type|zip)$"))
((identifier) @constant (#match? @constant "^[A-Z][A-Z0-9_]+$"))
((function_definition name: (identifier) @function))
((class_definition name: (identifier) @type))
((call function: (identifier) @function))
((call function: (attribute attribute: (identifier) @function)))
((attribute attribute: (identifier) @field))
((parameters (identifier) @parameter))
((default_parameter name: (identifier) @parameter))
((decorator) @function)
((identifier) @variable)
[
  "def" "class" "if" "elif" "else" "for" "while" "return" "import" "from"
  "as" "with" "try" "except" "finally" "raise" "pass" "break" "continue"
  "lambda" "yield" "in" "not" "and" "or" "is" "global" "nonlocal" "assert"
  "del" "async" "await"
] @keyword
[
  "+" "-" "*" "/" "//" "%" "**" "==" "!=" "<" ">" "<=" ">=" "=" "+=" "-="
  "*=" "/=" "&" "|" "^" "~" "<<" ">>" "->"
] @operator
["." "," ":" "(" ")" "[" "]" "{" "}"] @punctuation
`

const javascriptHighlightQuery = `
((comment) @comment)
((string) @string)
((template_string) @string)
((regex) @string)
((number) @number)
((true) @constant)
((false) @constant)
((null) @constant)
((undefined) @constant)
((this) @builtin)
((function_declaration name: (identifier) @function))
((method_definition name: (property_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (member_expression property: (property_identifier) @function)))
((class_declaration name: (identifier) @type))
((formal_parameters (identifier) @parameter))
((property_identifier) @field)
((shorthand_property_identifier) @field)
((identifier) @variable)
[
  "const" "let" "var" "function" "return" "if" "else" "for" "while" "do"
  "switch" "case" "default" "break" "continue" "new" "class" "extends"
  "import" "export" "from" "try" "catch" "finally" "throw" "typeof"
  "instanceof" "in" "of" "async" "await" "yield" "delete"
] @keyword
[
  "+" "-" "*" "/" "%" "==" "===" "!=" "!==" "<" ">" "<=" ">=" "=" "+="
  "-=" "&&" "||" "!" "?" "=>" "++" "--" "..."
] @operator
["." "," ";" ":" "(" ")" "[" "]" "{" "}"] @punctuation
`
